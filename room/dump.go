package room

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ErrMalformedDump is returned when a response dump cannot be parsed
var ErrMalformedDump = errors.New("malformed response dump")

// WriteResponse writes ir as comma separated values on one line, followed by the total
// received energy on the next. Values carry 7 significant digits.
func WriteResponse(w io.Writer, ir ImpulseResponse) error {
	bw := bufio.NewWriter(w)
	for _, v := range ir {
		if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', 7, 64)); err != nil {
			return err
		}
		if err := bw.WriteByte(','); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "\n%s", strconv.FormatFloat(ir.Sum(), 'g', 7, 64)); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadResponse parses the output of WriteResponse. It returns the response and the
// total energy recorded in the dump.
func ReadResponse(r io.Reader) (ImpulseResponse, float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<30)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: empty input", ErrMalformedDump)
	}
	ir := ImpulseResponse{}
	for i, field := range strings.Split(scanner.Text(), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: sample %d: %v", ErrMalformedDump, i, err)
		}
		ir = append(ir, v)
	}
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: missing total energy", ErrMalformedDump)
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: total energy: %v", ErrMalformedDump, err)
	}
	return ir, total, nil
}

// SaveResponse writes ir to path, gzip compressed when path ends in .gz
func SaveResponse(path string, ir ImpulseResponse) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating response dump: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if err := WriteResponse(w, ir); err != nil {
		return fmt.Errorf("writing response dump: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("compressing response dump: %w", err)
		}
	}
	return f.Close()
}

// LoadResponse reads a dump written by SaveResponse
func LoadResponse(path string) (ImpulseResponse, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening response dump: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, 0, fmt.Errorf("decompressing response dump: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return ReadResponse(r)
}
