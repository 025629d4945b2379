package reservoir

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/gorgonia/reservoir/layer"
)

type denseGob struct {
	Rows, Cols int
	Data       []float64
}

func encodeDense(enc *gob.Encoder, m *mat.Dense) error {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	return enc.Encode(denseGob{Rows: r, Cols: c, Data: data})
}

func decodeDense(dec *gob.Decoder) (*mat.Dense, error) {
	var d denseGob
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	if len(d.Data) != d.Rows*d.Cols {
		return nil, errors.Errorf("corrupt matrix: %d×%d with %d values", d.Rows, d.Cols, len(d.Data))
	}
	return mat.NewDense(d.Rows, d.Cols, d.Data), nil
}

// GobEncode serializes the configuration, the sampled reservoir weights and
// the trained readout, if any.
func (rc *ReservoirComputer) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(rc.conf); err != nil {
		return nil, err
	}
	if err := enc.Encode(rc.in); err != nil {
		return nil, err
	}
	if err := enc.Encode(rc.out); err != nil {
		return nil, err
	}
	if err := encodeDense(enc, rc.res.WRes()); err != nil {
		return nil, err
	}
	if err := encodeDense(enc, rc.res.WIn()); err != nil {
		return nil, err
	}

	w := rc.model.readout.Weights()
	if err := enc.Encode(w != nil); err != nil {
		return nil, err
	}
	if w != nil {
		if err := encodeDense(enc, w); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// GobDecode rebuilds the model, restoring the persisted weight matrices
// instead of resampling.
func (rc *ReservoirComputer) GobDecode(p []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(p))
	if err := dec.Decode(&rc.conf); err != nil {
		return err
	}
	if err := dec.Decode(&rc.in); err != nil {
		return err
	}
	if err := dec.Decode(&rc.out); err != nil {
		return err
	}
	wRes, err := decodeDense(dec)
	if err != nil {
		return err
	}
	wIn, err := decodeDense(dec)
	if err != nil {
		return err
	}
	res, err := layer.RestoreRandomReservoir(rc.in, rc.conf.reservoirConf(), wRes, wIn)
	if err != nil {
		return errors.Wrap(err, "restoring reservoir")
	}
	m, err := assemble(rc.in, rc.out, rc.conf, res)
	if err != nil {
		return errors.Wrap(err, "reassembling pipeline")
	}

	var fitted bool
	if err := dec.Decode(&fitted); err != nil {
		return err
	}
	if fitted {
		w, err := decodeDense(dec)
		if err != nil {
			return err
		}
		m.readout.SetWeights(w)
	}

	rc.res = res
	rc.model = m
	rc.log = quietLogger()
	return nil
}

// Save writes the model to filename.
func (rc *ReservoirComputer) Save(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(rc)
}

// Load reads a model previously written by Save.
func Load(filename string) (*ReservoirComputer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	rc := new(ReservoirComputer)
	if err := gob.NewDecoder(f).Decode(rc); err != nil {
		return nil, errors.WithStack(err)
	}
	return rc, nil
}
