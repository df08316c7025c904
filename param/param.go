// Package param is a declarative parser of string-keyed module parameters:
// every recognized key is described once (name, description, default, type
// and parser) and raw parameter sets are validated against the descriptions.
package param

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xaionaro-go/avsource/logger"
)

// PassthroughKey is accepted by ParseBy without being registered; it carries
// the directory relative paths of a configuration file are resolved against.
const PassthroughKey = "json_file_dir"

var (
	ErrIllegalDesc   = errors.New("illegal parameter description")
	ErrDuplicateDesc = errors.New("parameter is already registered")
	ErrUnknownParam  = errors.New("parameter is not registered")
)

// Raw is a parameter set as it comes from a configuration file or a command line.
type Raw = map[string]string

// Desc describes a parameter that is parsed into a T.
type Desc[T any] struct {
	Name         string
	Description  string
	DefaultValue string
	Type         string
	Parse        func(value string, out *T) error
}

func (d Desc[T]) IsLegal() bool {
	return d.Name != "" && d.Type != "" && d.Parse != nil
}

// FullDescription is what is shown to the user as the help of a parameter.
func (d Desc[T]) FullDescription() string {
	return fmt.Sprintf("%s --- type : [%s] --- default value : [%s]", d.Description, d.Type, d.DefaultValue)
}

// ErrParam is returned when a value is rejected by the parser of its key.
type ErrParam struct {
	Name  string
	Value string
	Err   error
}

func (e ErrParam) Error() string {
	return fmt.Sprintf("unable to parse parameter [%s] with value [%s]: %v", e.Name, e.Value, e.Err)
}

func (e ErrParam) Unwrap() error {
	return e.Err
}

type Manager[T any] struct {
	descs []Desc[T]
	index map[string]int
}

func NewManager[T any]() *Manager[T] {
	return &Manager[T]{
		index: map[string]int{},
	}
}

func (m *Manager[T]) Register(desc Desc[T]) error {
	if !desc.IsLegal() {
		return fmt.Errorf("%w: %q", ErrIllegalDesc, desc.Name)
	}
	if _, ok := m.index[desc.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateDesc, desc.Name)
	}
	m.index[desc.Name] = len(m.descs)
	m.descs = append(m.descs, desc)
	return nil
}

func (m *Manager[T]) RegisterAll(descs ...Desc[T]) error {
	var result []error
	for _, desc := range descs {
		if err := m.Register(desc); err != nil {
			result = append(result, err)
		}
	}
	return errors.Join(result...)
}

// ParseBy applies every registered description to out in registration
// order, using the raw value when present and the default otherwise. Keys
// that are not registered are rejected, except PassthroughKey.
func (m *Manager[T]) ParseBy(
	ctx context.Context,
	raw Raw,
	out *T,
) error {
	if out == nil {
		return fmt.Errorf("output is nil")
	}
	for _, desc := range m.descs {
		value, ok := raw[desc.Name]
		if !ok {
			value = desc.DefaultValue
		}
		if err := desc.Parse(value, out); err != nil {
			logger.Errorf(ctx, "Parse parameter [%s] failed. value is [%s]: %v", desc.Name, value, err)
			return ErrParam{Name: desc.Name, Value: value, Err: err}
		}
	}

	var unknown []string
	for key := range raw {
		if key == PassthroughKey {
			continue
		}
		if _, ok := m.index[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		logger.Errorf(ctx, "parameters %v are not registered", unknown)
		return fmt.Errorf("%w: %v", ErrUnknownParam, unknown)
	}
	return nil
}

type Description struct {
	Name string
	Text string
}

// Descriptions returns the help of every registered parameter in
// registration order.
func (m *Manager[T]) Descriptions() []Description {
	result := make([]Description, 0, len(m.descs))
	for _, desc := range m.descs {
		result = append(result, Description{
			Name: desc.Name,
			Text: desc.FullDescription(),
		})
	}
	return result
}
