package engine

import (
	"errors"
	"testing"

	"github.com/viant/qnn/vector"
)

func TestRegisterVectorFunctionsAndUse(t *testing.T) {
	if err := RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(Memory)
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	encode := func(v ...float32) []byte {
		b, err := vector.EncodeEmbedding(v)
		if err != nil {
			t.Fatalf("EncodeEmbedding(%v) failed: %v", v, err)
		}
		return b
	}
	// vec_dot is not normalised: (1,2,3).(4,5,6) = 32
	var d float64
	if err := db.QueryRow(`SELECT vec_dot(?, ?)`, encode(1, 2, 3), encode(4, 5, 6)).Scan(&d); err != nil {
		t.Fatalf("vec_dot query failed: %v", err)
	}
	if d != 32 {
		t.Fatalf("vec_dot = %v, want 32", d)
	}
}

func TestVecDotNullAndMismatch(t *testing.T) {
	db, err := Open(Memory)
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	q, _ := vector.EncodeEmbedding([]float32{1, 0})
	var got *float64
	if err := db.QueryRow(`SELECT vec_dot(NULL, ?)`, q).Scan(&got); err != nil {
		t.Fatalf("vec_dot(NULL) query failed: %v", err)
	}
	if got != nil {
		t.Fatalf("vec_dot(NULL, q) = %v, want NULL", *got)
	}

	long, _ := vector.EncodeEmbedding([]float32{1, 0, 0})
	var d float64
	if err := db.QueryRow(`SELECT vec_dot(?, ?)`, long, q).Scan(&d); err == nil {
		t.Fatalf("vec_dot with mismatched dims succeeded, want error")
	}
}

// TestRegisterVectorFunctionsKeepsError checks that a failed registration is
// reported on every call and by Open, not only on the first call.
func TestRegisterVectorFunctionsKeepsError(t *testing.T) {
	if err := RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}

	// a second registration under the same name is rejected by the driver
	failure := register("vec_dot", vecDotImpl)
	if failure == nil {
		t.Fatalf("registering vec_dot twice succeeded, want error")
	}

	saved := registerErr
	t.Cleanup(func() { registerErr = saved })
	registerErr = failure

	for i := 0; i < 2; i++ {
		if err := RegisterVectorFunctions(nil); !errors.Is(err, failure) {
			t.Fatalf("RegisterVectorFunctions #%d = %v, want %v", i, err, failure)
		}
	}
	if db, err := Open(Memory); err == nil {
		_ = db.Close()
		t.Fatalf("Open succeeded after failed registration")
	}
}
