package engine

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterVectorFunctions registers vec_dot with the driver so it is
// available on new connections opened after this call. Registration runs
// once; its error is returned on every call.
// Note: existing open connections will not see new functions.
func RegisterVectorFunctions(_ *sql.DB) error {
	registerOnce.Do(func() {
		registerErr = register("vec_dot", vecDotImpl)
	})
	return registerErr
}

func register(name string, fn func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error)) error {
	if err := sqlite.RegisterDeterministicScalarFunction(name, 2, fn); err != nil {
		return fmt.Errorf("vec: registering %s: %w", name, err)
	}
	return nil
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("vec: unsupported argument type %T for embedding; want BLOB", arg)
	}
}

// binaryArgs decodes both embedding arguments; ok is false when either is
// NULL or empty, in which case the SQL result is NULL.
func binaryArgs(name string, args []driver.Value) (a, b []float32, ok bool, err error) {
	if len(args) != 2 {
		return nil, nil, false, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	if a, err = asEmbedding(args[0]); err != nil {
		return nil, nil, false, err
	}
	if b, err = asEmbedding(args[1]); err != nil {
		return nil, nil, false, err
	}
	return a, b, a != nil && b != nil, nil
}

func vecDotImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, ok, err := binaryArgs("vec_dot", args)
	if err != nil || !ok {
		return nil, err
	}
	s, err := dot(a, b)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(s) {
		return nil, nil
	}
	return s, nil
}

// Local minimal helpers to avoid import cycles in tests.
func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vec: invalid embedding blob length %d", len(b))
	}
	n := len(b) / 4
	v := make([]float32, n)
	for i := 0; i < n; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

func dot(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vec: dot dim mismatch %d vs %d", len(a), len(b))
	}
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s, nil
}
