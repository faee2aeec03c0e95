package lib

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrEventSignature is returned when a log's first topic is not the hash of
// the expected event signature.
var ErrEventSignature = errors.New("event signature mismatch")

// EventInput is one parameter of an event.
type EventInput struct {
	Type    string
	Indexed bool
}

// Event describes a contract event and decodes its logs.
type Event struct {
	event abi.Event
	// topicTypes holds, per input, the type the value has as a topic
	topicTypes []abi.Type
}

var hashT = mustArguments([]string{"bytes32"})[0].Type

func MustEvent(name string, anonymous bool, inputs ...EventInput) *Event {
	args := make(abi.Arguments, len(inputs))
	topicTypes := make([]abi.Type, len(inputs))
	for i, in := range inputs {
		args[i] = mustArguments([]string{in.Type})[0]
		args[i].Name = fmt.Sprintf("arg%d", i)
		args[i].Indexed = in.Indexed
		topicTypes[i] = args[i].Type
		if in.Indexed && hashedTopic(args[i].Type) {
			topicTypes[i] = hashT
		}
	}
	return &Event{
		event:      abi.NewEvent(name, name, anonymous, args),
		topicTypes: topicTypes,
	}
}

// Indexed dynamic values and arrays are stored as the keccak-256 hash of their encoding.
func hashedTopic(t abi.Type) bool {
	switch t.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		return true
	}
	return false
}

func (e *Event) Name() string      { return e.event.RawName }
func (e *Event) Signature() string { return e.event.Sig }
func (e *Event) ID() common.Hash   { return e.event.ID }

// ParseLog decodes the inputs of log in declaration order. Indexed inputs of
// hashed types come back as 32-byte fixed bytes tokens.
func (e *Event) ParseLog(log types.Log) ([]Token, error) {
	topics := log.Topics
	if !e.event.Anonymous {
		if len(topics) == 0 || topics[0] != e.event.ID {
			return nil, fmt.Errorf("%s: %w", e.event.Sig, ErrEventSignature)
		}
		topics = topics[1:]
	}

	data, err := unpack(e.event.Inputs.NonIndexed(), log.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.event.Sig, err)
	}

	out := make([]Token, 0, len(e.event.Inputs))
	for i, arg := range e.event.Inputs {
		if !arg.Indexed {
			out = append(out, data[0])
			data = data[1:]
			continue
		}
		if len(topics) == 0 {
			return nil, fmt.Errorf("%s: missing topic for input %d", e.event.Sig, i)
		}
		word := abi.Arguments{{Type: e.topicTypes[i]}}
		values, err := unpack(word, topics[0].Bytes())
		if err != nil {
			return nil, fmt.Errorf("%s: topic for input %d: %w", e.event.Sig, i, err)
		}
		out = append(out, values[0])
		topics = topics[1:]
	}
	return out, nil
}

// Topics builds a log filter. Each argument lists the accepted values of one
// indexed input, in declaration order; an empty list matches anything.
func (e *Event) Topics(filters ...[]Token) ([][]common.Hash, error) {
	var query [][]interface{}
	if !e.event.Anonymous {
		query = append(query, []interface{}{e.event.ID})
	}

	next := 0
	for i, arg := range e.event.Inputs {
		if !arg.Indexed {
			continue
		}
		if next >= len(filters) {
			break
		}
		rules := make([]interface{}, 0, len(filters[next]))
		for _, t := range filters[next] {
			v, err := toGo(e.topicTypes[i], t)
			if err != nil {
				return nil, fmt.Errorf("%s: topic for input %d: %w", e.event.Sig, i, err)
			}
			rules = append(rules, topicValue(e.topicTypes[i], v))
		}
		query = append(query, rules)
		next++
	}
	if next < len(filters) {
		return nil, fmt.Errorf("%s: %d topic filters for %d indexed inputs", e.event.Sig, len(filters), next)
	}
	return abi.MakeTopics(query...)
}

// topicValue adapts v to how MakeTopics lays it out. Fixed bytes are left
// aligned and signed big integers are stored in two's complement; everything
// else, addresses included, MakeTopics handles by itself.
func topicValue(typ abi.Type, v reflect.Value) interface{} {
	switch typ.T {
	case abi.FixedBytesTy:
		var h common.Hash
		reflect.Copy(reflect.ValueOf(h[:]), v)
		return h
	case abi.IntTy:
		if n, ok := v.Interface().(*big.Int); ok {
			return common.BytesToHash(math.U256Bytes(new(big.Int).Set(n)))
		}
	}
	return v.Interface()
}

// Topic lists the values an indexed event input may take in a filter.
// A nil or empty Topic matches every value.
type Topic[T any] []T

// TopicTokens encodes the values of t with f.
func TopicTokens[T any](t Topic[T], f func(T) Token) []Token {
	return MapSlice(t, f)
}
