// Package ridge trains linear readouts by L2-regularized least squares over
// collected reservoir states.
package ridge

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the regularized normal equations cannot be
// solved at all, even by pseudo-inverse.
var ErrSingular = errors.New("singular regression system")

const eps = 2.220446049250313e-16

// Fit solves (ΦᵀΦ + α·I)·W = ΦᵀY for the readout weights W.
//
// phi rows are samples (time × batch), columns are features; y rows match
// phi's rows, columns are output channels. The returned matrix is
// (features × outputs). The normal equations are solved by Cholesky
// factorization; if the regularized system is still not positive definite,
// a truncated SVD pseudo-inverse is used, and a zero-rank system fails with
// ErrSingular.
func Fit(phi, y *mat.Dense, alpha float64) (*mat.Dense, error) {
	if alpha < 0 {
		return nil, errors.Errorf("negative regularization %g", alpha)
	}
	pr, pc := phi.Dims()
	yr, yc := y.Dims()
	if pr != yr {
		return nil, errors.Errorf("%d feature rows against %d target rows", pr, yr)
	}

	var ptp mat.Dense
	ptp.Mul(phi.T(), phi)
	sym := mat.NewSymDense(pc, nil)
	for i := 0; i < pc; i++ {
		for j := i; j < pc; j++ {
			v := ptp.At(i, j)
			if i == j {
				v += alpha
			}
			sym.SetSym(i, j, v)
		}
	}
	var pty mat.Dense
	pty.Mul(phi.T(), y)

	w := mat.NewDense(pc, yc, nil)
	var ch mat.Cholesky
	if ch.Factorize(sym) {
		if err := ch.SolveTo(w, &pty); err == nil {
			return w, nil
		}
	}
	if err := pinvSolve(sym, &pty, w); err != nil {
		return nil, err
	}
	return w, nil
}

// pinvSolve solves a·dst = b through a truncated SVD pseudo-inverse of a.
func pinvSolve(a mat.Symmetric, b, dst *mat.Dense) error {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return errors.Wrap(ErrSingular, "svd factorization failed")
	}
	vals := svd.Values(nil)
	tol := float64(len(vals)) * eps * vals[0]
	rank := 0
	for _, s := range vals {
		if s > tol && s > 0 {
			rank++
		}
	}
	if rank == 0 {
		return errors.Wrap(ErrSingular, "zero-rank system")
	}

	var u, v, utb mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	utb.Mul(u.T(), b)
	n, _ := utb.Dims()
	for i := 0; i < n; i++ {
		row := utb.RawRowView(i)
		for j := range row {
			if i < rank {
				row[j] /= vals[i]
			} else {
				row[j] = 0
			}
		}
	}
	dst.Mul(&v, &utb)
	return nil
}
