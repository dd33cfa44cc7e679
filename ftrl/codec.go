package ftrl

import (
	"bytes"
	"encoding/gob"
	"strings"

	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

// snapshot is the gob wire form of a full estimator: hyperparameters,
// labels, the weight store, the accumulated importances with their
// column names, and the regression kind. The accumulators travel as raw
// typed slices, so a decode reproduces the store bit for bit.
type snapshot struct {
	Params     paramsState
	Labels     []string
	Model      *modelState
	Importance *importanceState
	RegKind    int32
}

type paramsState struct {
	Alpha           float64
	Beta            float64
	Lambda1         float64
	Lambda2         float64
	NBins           uint64
	NEpochs         int64
	Interactions    bool
	DoublePrecision bool
}

// modelState carries the weight store in exactly one precision. Names
// holds the exported z/n column names, alternating per label.
type modelState struct {
	Names []string
	Z32   [][]float32
	N32   [][]float32
	Z64   [][]float64
	N64   [][]float64
}

// importanceState carries the training column names next to their
// importances, so a loaded model knows its expected input shape.
type importanceState struct {
	ColNames []string
	Values   []float64
}

func (p Params) toState() paramsState {
	return paramsState{
		Alpha:           p.Alpha,
		Beta:            p.Beta,
		Lambda1:         p.Lambda1,
		Lambda2:         p.Lambda2,
		NBins:           p.NBins,
		NEpochs:         int64(p.NEpochs),
		Interactions:    p.Interactions,
		DoublePrecision: p.DoublePrecision,
	}
}

func (s paramsState) toParams() Params {
	return Params{
		Alpha:           s.Alpha,
		Beta:            s.Beta,
		Lambda1:         s.Lambda1,
		Lambda2:         s.Lambda2,
		NBins:           s.NBins,
		NEpochs:         int(s.NEpochs),
		Interactions:    s.Interactions,
		DoublePrecision: s.DoublePrecision,
	}
}

// MarshalBinary serializes the full estimator state. Together with
// UnmarshalBinary it round-trips a model exactly: a loaded model
// produces bit-identical predictions.
func (f *FTRL) MarshalBinary() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	s := snapshot{
		Params:  f.params.toState(),
		Labels:  append([]string(nil), f.labels...),
		Model:   f.k.encodeState(f.labels),
		RegKind: int32(f.reg),
	}
	if f.fi != nil {
		s.Importance = &importanceState{
			ColNames: append([]string(nil), f.colNames...),
			Values:   append([]float64(nil), f.fi...),
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
		return nil, ftrlErrors.NewModelError("FTRL.MarshalBinary", "encoding model snapshot", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores an estimator from MarshalBinary output. The
// snapshot is fully validated first; on any error the receiver is left
// unchanged.
func (f *FTRL) UnmarshalBinary(data []byte) error {
	const op = "FTRL.UnmarshalBinary"

	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return ftrlErrors.NewModelError(op, "decoding model snapshot", err)
	}

	p := s.Params.toParams()
	if err := p.validate(); err != nil {
		return err
	}
	if len(s.Labels) == 0 {
		return ftrlErrors.NewValueError(op, "snapshot has no labels")
	}

	k := newKernel(p)
	if s.Model != nil {
		if err := validateModelNames(s.Model.Names, s.Labels); err != nil {
			return err
		}
		if err := k.decodeState(s.Model, len(s.Labels)); err != nil {
			return err
		}
	}

	reg := RegKind(s.RegKind)
	switch reg {
	case RegNone:
		if s.Model != nil {
			return ftrlErrors.NewValueError(op, "snapshot carries a model but no regression kind")
		}
	case RegBinary, RegMultinomial:
		if s.Model == nil {
			return ftrlErrors.NewValueError(op, "snapshot names a regression kind but has no model")
		}
	default:
		return ftrlErrors.NewValueError(op, "snapshot has an unknown regression kind")
	}

	var fi []float64
	var colNames []string
	var colHashes []uint64
	if s.Importance != nil {
		if len(s.Importance.ColNames) != len(s.Importance.Values) {
			return ftrlErrors.NewDimensionError(op,
				len(s.Importance.ColNames), len(s.Importance.Values), 0)
		}
		fi = append([]float64(nil), s.Importance.Values...)
		colNames = append([]string(nil), s.Importance.ColNames...)
		colHashes = newHasher(colNames, p.NBins, false).nameHashes
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = p
	f.labels = append([]string(nil), s.Labels...)
	f.k = k
	f.fi = fi
	f.colNames = colNames
	f.colHashes = colHashes
	f.reg = reg
	if s.Model != nil {
		f.state.SetFitted()
		f.state.SetDimensions(len(colNames), 0)
	} else {
		f.state.Reset()
	}
	return nil
}

// validateModelNames checks that the snapshot's z/n column names line up
// with its label list.
func validateModelNames(names, labels []string) error {
	const op = "FTRL.UnmarshalBinary"
	if len(names) != 2*len(labels) {
		return ftrlErrors.NewDimensionError(op, 2*len(labels), len(names), 1)
	}
	for l, label := range labels {
		z, n := names[2*l], names[2*l+1]
		if strings.TrimPrefix(z, "z_") != label || strings.TrimPrefix(n, "n_") != label {
			return ftrlErrors.NewValueError(op,
				"snapshot model column names do not match its labels")
		}
	}
	return nil
}
