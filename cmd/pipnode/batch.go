package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"pipnet/pkg/pip"
	"pipnet/pkg/wire"
)

// scenarioFile is the YAML shape a batch scenario file is parsed from: a
// flat list of requests, each identified by kind, with every field a
// scalar (back-references aren't expressible from a static file).
type scenarioFile struct {
	Requests []scenarioRequest `yaml:"requests"`
}

type scenarioRequest struct {
	Kind string `yaml:"kind"`

	StartNumber uint64 `yaml:"start_number"`
	Skip        uint64 `yaml:"skip"`
	Max         uint64 `yaml:"max"`
	Reverse     bool   `yaml:"reverse"`

	Num uint64 `yaml:"num"`

	Hash        string `yaml:"hash"`
	BlockHash   string `yaml:"block_hash"`
	AddressHash string `yaml:"address_hash"`
	KeyHash     string `yaml:"key_hash"`
	CodeHash    string `yaml:"code_hash"`

	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Gas      uint64 `yaml:"gas"`
	GasPrice uint64 `yaml:"gas_price"`
	Value    uint64 `yaml:"value"`
	Data     string `yaml:"data"`
}

func parseHash(s string) (pip.Hash, error) {
	var h pip.Hash
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("invalid hash %q: want %d bytes, got %d", s, len(h), len(b))
	}
	copy(h[:], b)
	return h, nil
}

func parseAddress(s string) (pip.Address, error) {
	var a pip.Address
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(b) != len(a) {
		return a, fmt.Errorf("invalid address %q: want %d bytes, got %d", s, len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}

// buildRequest translates one scenario entry into the pip.Request it names.
func buildRequest(sr scenarioRequest) (pip.Request, error) {
	switch sr.Kind {
	case "headers":
		return &pip.HeadersRequest{
			Start:   pip.Scalar(wire.FromNumber(sr.StartNumber)),
			Skip:    sr.Skip,
			Max:     sr.Max,
			Reverse: sr.Reverse,
		}, nil
	case "header_proof":
		return &pip.HeaderProofRequest{Num: pip.Scalar(sr.Num)}, nil
	case "transaction_index":
		hash, err := parseHash(sr.Hash)
		if err != nil {
			return nil, err
		}
		return &pip.TransactionIndexRequest{Hash: pip.Scalar(hash)}, nil
	case "receipts":
		hash, err := parseHash(sr.Hash)
		if err != nil {
			return nil, err
		}
		return &pip.ReceiptsRequest{Hash: pip.Scalar(hash)}, nil
	case "body":
		hash, err := parseHash(sr.Hash)
		if err != nil {
			return nil, err
		}
		return &pip.BodyRequest{Hash: pip.Scalar(hash)}, nil
	case "account":
		blockHash, err := parseHash(sr.BlockHash)
		if err != nil {
			return nil, err
		}
		addressHash, err := parseHash(sr.AddressHash)
		if err != nil {
			return nil, err
		}
		return &pip.AccountRequest{BlockHash: pip.Scalar(blockHash), AddressHash: pip.Scalar(addressHash)}, nil
	case "storage":
		blockHash, err := parseHash(sr.BlockHash)
		if err != nil {
			return nil, err
		}
		addressHash, err := parseHash(sr.AddressHash)
		if err != nil {
			return nil, err
		}
		keyHash, err := parseHash(sr.KeyHash)
		if err != nil {
			return nil, err
		}
		return &pip.StorageRequest{
			BlockHash:   pip.Scalar(blockHash),
			AddressHash: pip.Scalar(addressHash),
			KeyHash:     pip.Scalar(keyHash),
		}, nil
	case "code":
		blockHash, err := parseHash(sr.BlockHash)
		if err != nil {
			return nil, err
		}
		codeHash, err := parseHash(sr.CodeHash)
		if err != nil {
			return nil, err
		}
		return &pip.CodeRequest{BlockHash: pip.Scalar(blockHash), CodeHash: pip.Scalar(codeHash)}, nil
	case "execution":
		blockHash, err := parseHash(sr.BlockHash)
		if err != nil {
			return nil, err
		}
		from, err := parseAddress(sr.From)
		if err != nil {
			return nil, err
		}
		action := pip.CreateAction()
		if sr.To != "" {
			to, err := parseAddress(sr.To)
			if err != nil {
				return nil, err
			}
			action = pip.CallAction(to)
		}
		return &pip.ExecutionRequest{
			BlockHash: pip.Scalar(blockHash),
			From:      from,
			Action:    action,
			Gas:       uint256.NewInt(sr.Gas),
			GasPrice:  uint256.NewInt(sr.GasPrice),
			Value:     uint256.NewInt(sr.Value),
			Data:      []byte(sr.Data),
		}, nil
	case "signal":
		blockHash, err := parseHash(sr.BlockHash)
		if err != nil {
			return nil, err
		}
		return &pip.SignalRequest{BlockHash: pip.Scalar(blockHash)}, nil
	default:
		return nil, fmt.Errorf("unknown request kind %q", sr.Kind)
	}
}

func loadScenario(path string) (*pip.Batch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	var sf scenarioFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}

	batch := pip.NewBuilder()
	for i, sr := range sf.Requests {
		req, err := buildRequest(sr)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		if err := batch.Append(req); err != nil {
			return nil, fmt.Errorf("request %d: append to batch: %w", i, err)
		}
	}
	return batch, nil
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "build, encode, and decode request batches from a scenario file",
	}
	cmd.AddCommand(batchEncodeCmd())
	cmd.AddCommand(batchDecodeCmd())
	return cmd
}

func batchEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [scenario.yaml]",
		Short: "build a batch from a YAML scenario file and print its wire encoding as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := loadScenario(args[0])
			if err != nil {
				return fmt.Errorf("pipnode: %w", err)
			}
			envs := make([]pip.RequestEnvelope, batch.Len())
			for i, req := range batch.Requests() {
				envs[i] = pip.RequestEnvelope{Req: req}
			}
			data, err := wire.Encode(envs)
			if err != nil {
				return fmt.Errorf("pipnode: encode batch: %w", err)
			}
			fmt.Println(hex.EncodeToString(data))
			return nil
		},
	}
}

func batchDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex]",
		Short: "decode a hex-encoded wire batch and print each request's kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("pipnode: invalid hex input: %w", err)
			}
			var envs []pip.RequestEnvelope
			if err := wire.Decode(data, &envs); err != nil {
				return fmt.Errorf("pipnode: decode batch: %w", err)
			}
			for i, e := range envs {
				fmt.Printf("%d: %s %+v\n", i, e.Req.Kind(), e.Req)
			}
			return nil
		},
	}
}
