// Package filter describes the set of logs an indexer follows and derives the
// stable identity under which its checkpoint is stored.
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goran-ethernal/LogIndexor/pkg/config"
)

// DefaultStartBlock is used when a filter does not set a start block.
const DefaultStartBlock uint64 = 1

// Filter selects logs by emitting contract and topic values.
// An empty address list or topic position matches anything.
type Filter struct {
	StartBlock *uint64
	Addresses  []common.Address
	Topics     [config.MaxTopicPositions][]common.Hash
}

// New returns an empty filter that matches every log from block 1.
func New() Filter {
	return Filter{}
}

// WithStartBlock returns a copy of f starting at block.
func (f Filter) WithStartBlock(block uint64) Filter {
	f.StartBlock = &block
	return f
}

// WithAddresses returns a copy of f also matching the given contracts.
func (f Filter) WithAddresses(addresses ...common.Address) Filter {
	f.Addresses = append(slices.Clone(f.Addresses), addresses...)
	return f
}

// WithEvents returns a copy of f matching the given event signatures at topic position 0,
// e.g. "Transfer(address,address,uint256)".
func (f Filter) WithEvents(signatures ...string) Filter {
	hashes := make([]common.Hash, 0, len(signatures))
	for _, sig := range signatures {
		hashes = append(hashes, EventID(sig))
	}
	return f.WithTopic(0, hashes...)
}

// WithTopic returns a copy of f also matching the given values at topic position pos.
// It panics when pos is not in [0, 3].
func (f Filter) WithTopic(pos int, topics ...common.Hash) Filter {
	if pos < 0 || pos >= config.MaxTopicPositions {
		panic(fmt.Sprintf("topic position %d out of range", pos))
	}
	f.Topics[pos] = append(slices.Clone(f.Topics[pos]), topics...)
	return f
}

// ResolvedStartBlock returns the configured start block or DefaultStartBlock.
func (f Filter) ResolvedStartBlock() uint64 {
	if f.StartBlock == nil {
		return DefaultStartBlock
	}
	return *f.StartBlock
}

// Query builds the eth_getLogs query for the inclusive range [from, to].
func (f Filter) Query(from, to uint64) ethereum.FilterQuery {
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: slices.Clone(f.Addresses),
	}

	// trailing wildcard positions are dropped, inner ones stay as nil
	last := -1
	for i, topics := range f.Topics {
		if len(topics) > 0 {
			last = i
		}
	}
	if last >= 0 {
		q.Topics = make([][]common.Hash, last+1)
		for i := 0; i <= last; i++ {
			q.Topics[i] = slices.Clone(f.Topics[i])
		}
	}

	return q
}

// SubscriptionQuery builds the eth_subscribe("logs") query. Subscriptions only deliver new logs
// so the block bounds are left open.
func (f Filter) SubscriptionQuery() ethereum.FilterQuery {
	q := f.Query(0, 0)
	q.FromBlock = nil
	q.ToBlock = nil
	return q
}

// EventID returns the topic 0 value of an event signature.
func EventID(signature string) common.Hash {
	return crypto.Keccak256Hash([]byte(strings.ReplaceAll(signature, " ", "")))
}

type filterJSON struct {
	StartBlock *uint64          `json:"start_block,omitempty"`
	Addresses  []common.Address `json:"addresses"`
	Topics     [][]common.Hash  `json:"topics"`
}

// MarshalJSON renders the filter in the form stored next to its checkpoint.
func (f Filter) MarshalJSON() ([]byte, error) {
	out := filterJSON{
		StartBlock: f.StartBlock,
		Addresses:  f.Addresses,
		Topics:     make([][]common.Hash, config.MaxTopicPositions),
	}
	if out.Addresses == nil {
		out.Addresses = []common.Address{}
	}
	for i, topics := range f.Topics {
		out.Topics[i] = topics
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the form written by MarshalJSON.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var in filterJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.Topics) > config.MaxTopicPositions {
		return fmt.Errorf("filter has %d topic positions, at most %d allowed", len(in.Topics), config.MaxTopicPositions)
	}

	*f = Filter{StartBlock: in.StartBlock, Addresses: in.Addresses}
	for i, topics := range in.Topics {
		if len(topics) > 0 {
			f.Topics[i] = topics
		}
	}
	return nil
}

// FromConfig builds a filter from its configuration section.
func FromConfig(cfg config.FilterConfig) (Filter, error) {
	if err := cfg.Validate(); err != nil {
		return Filter{}, err
	}

	f := New()
	if cfg.StartBlock != nil {
		f = f.WithStartBlock(*cfg.StartBlock)
	}

	for _, addr := range cfg.Addresses {
		f = f.WithAddresses(common.HexToAddress(addr))
	}

	if len(cfg.Events) > 0 {
		f = f.WithEvents(cfg.Events...)
	}

	for pos, topics := range cfg.Topics {
		for _, topic := range topics {
			f = f.WithTopic(pos, common.HexToHash(topic))
		}
	}

	return f, nil
}

// String implements fmt.Stringer.
func (f Filter) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "start=%d addresses=%d", f.ResolvedStartBlock(), len(f.Addresses))
	for i, topics := range f.Topics {
		fmt.Fprintf(&sb, " topic%d=%d", i, len(topics))
	}
	return sb.String()
}

// sortedUnique returns a sorted copy of values without duplicates.
func sortedUnique[T interface {
	comparable
	Bytes() []byte
}](values []T) []T {
	out := slices.Clone(values)
	slices.SortFunc(out, func(a, b T) int {
		return bytes.Compare(a.Bytes(), b.Bytes())
	})
	return slices.Compact(out)
}
