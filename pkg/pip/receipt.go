package pip

// Log is a single event log entry attached to a receipt.
type Log struct {
	Address Address
	Topics  []Hash
	Data    Bytes
}

// Receipt is a transaction's post-execution outcome, as returned by a
// Receipts request.
type Receipt struct {
	PostStateOrStatus Bytes
	CumulativeGasUsed uint64
	Bloom             [256]byte
	Logs              []Log
}

// Action is an execution request's target: contract creation, or a call to
// an existing address. A nil To means creation, mirroring go-ethereum's own
// Transaction.To *common.Address convention.
type Action struct {
	To *Address `rlp:"nil"`
}

// CreateAction builds a contract-creation action.
func CreateAction() Action { return Action{} }

// CallAction builds an action calling an existing address.
func CallAction(to Address) Action { return Action{To: &to} }

// IsCreate reports whether this action creates a new contract.
func (a Action) IsCreate() bool { return a.To == nil }
