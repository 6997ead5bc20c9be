package pip

import "fmt"

// Kind is the wire tag distinguishing the ten request/response shapes.
// It doubles as the discriminant for the request and response envelopes.
type Kind uint8

const (
	KindHeaders Kind = iota
	KindHeaderProof
	KindTransactionIndex
	KindReceipts
	KindBody
	KindAccount
	KindStorage
	KindCode
	KindExecution
	KindSignal
)

var kindNames = [...]string{
	"Headers", "HeaderProof", "TransactionIndex", "Receipts", "Body",
	"Account", "Storage", "Code", "Execution", "Signal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is one of the ten recognised request kinds.
func (k Kind) Valid() bool { return int(k) < len(kindNames) }

// OutputKind describes the static type of an output slot. Output
// declarations are a pure function of the request kind: they depend on
// neither inputs nor responses.
type OutputKind uint8

const (
	OutputKindHash OutputKind = iota
	OutputKindNumber
)

func (k OutputKind) String() string {
	if k == OutputKindHash {
		return "Hash"
	}
	return "Number"
}

// Output is the runtime value stored in an output slot.
type Output struct {
	kind OutputKind
	hash Hash
	num  uint64
}

// HashOutput builds a Hash-kind output.
func HashOutput(h Hash) Output { return Output{kind: OutputKindHash, hash: h} }

// NumberOutput builds a Number-kind output.
func NumberOutput(n uint64) Output { return Output{kind: OutputKindNumber, num: n} }

// Kind reports the static type of the output.
func (o Output) Kind() OutputKind { return o.kind }

// Hash returns the hash value and true iff this is a Hash-kind output.
func (o Output) Hash() (Hash, bool) {
	if o.kind != OutputKindHash {
		return Hash{}, false
	}
	return o.hash, true
}

// Number returns the number value and true iff this is a Number-kind output.
func (o Output) Number() (uint64, bool) {
	if o.kind != OutputKindNumber {
		return 0, false
	}
	return o.num, true
}
