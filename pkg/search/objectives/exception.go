package objectives

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// ExceptionHash is the fingerprint of an exception signature.
func ExceptionHash(signature string) string {
	sum := md5.Sum([]byte(signature))
	return hex.EncodeToString(sum[:])
}

// Exception is created ad hoc for every distinct exception the subject raises.
// It is covered by construction: only encodings that raised it are archived.
type Exception struct {
	hash      string
	signature string
}

var _ framework.ObjectiveFunction = &Exception{}

// NewException creates the objective for an exception signature.
func NewException(signature string) *Exception {
	return &Exception{hash: ExceptionHash(signature), signature: signature}
}

func (x *Exception) ID() string                    { return framework.ObjectiveID(x.Kind(), x.hash) }
func (x *Exception) Kind() framework.ObjectiveKind { return framework.ExceptionObjective }
func (x *Exception) TargetID() string              { return x.hash }
func (x *Exception) Signature() string             { return x.signature }

func (x *Exception) Distance(e framework.Encoding) (float64, error) {
	r, err := executed(e, x.ID())
	if err != nil {
		return 0, err
	}
	if r.HasException() && ExceptionHash(r.Exception) == x.hash {
		return 0, nil
	}
	return 1, nil
}
