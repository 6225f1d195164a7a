package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/hupe1980/knnmeans/model"
)

// maxLineSize bounds a single record. A 784-dimensional record of three-digit
// values is about 3 KiB.
const maxLineSize = 1 << 20

// Parse reads records from r. If dim is positive every record must carry
// exactly dim components; otherwise the first record fixes the dimension.
func Parse(r io.Reader, dim int) ([]*model.LabeledVector, error) {
	var out []*model.LabeledVector
	err := scan(r, dim, func(v *model.LabeledVector) bool {
		out = append(out, v)
		return true
	})
	return out, err
}

// scan calls fn for each record until fn returns false or input ends.
func scan(r io.Reader, dim int, fn func(*model.LabeledVector) bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}

		v, err := parseRecord(text, dim)
		if err != nil {
			var mre *MalformedRecordError
			if errors.As(err, &mre) {
				mre.Line = line
			}
			return err
		}
		if dim <= 0 {
			dim = len(v.Vector)
		}
		if !fn(v) {
			return nil
		}
	}
	return sc.Err()
}

func parseRecord(text []byte, dim int) (*model.LabeledVector, error) {
	fields := bytes.Count(text, []byte{','}) + 1
	if fields < 2 || (dim > 0 && fields != dim+1) {
		return nil, &MalformedRecordError{Fields: fields, Err: ErrFieldCount}
	}

	var (
		label int
		vec   = make([]float64, 0, fields-1)
	)
	for i := 0; i < fields; i++ {
		field := text
		if j := bytes.IndexByte(text, ','); j >= 0 {
			field, text = text[:j], text[j+1:]
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(field)))
		if err != nil {
			return nil, &MalformedRecordError{Fields: fields, Err: err}
		}
		if i == 0 {
			label = n
			continue
		}
		vec = append(vec, float64(n))
	}

	return model.NewLabeledVector(label, vec), nil
}

// Encode writes vs in record format, one line per vector, in slice order.
func Encode(w io.Writer, vs []*model.LabeledVector) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 4*1024)
	for _, v := range vs {
		buf = strconv.AppendInt(buf[:0], int64(v.Label), 10)
		for _, x := range v.Vector {
			buf = append(buf, ',')
			buf = strconv.AppendFloat(buf, x, 'f', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
