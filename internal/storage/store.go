package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/fdstencil/internal/batch"
)

const (
	metadataFile = "metadata.json"
	weightsFile  = "weights.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string          `json:"id"`
	Job       string          `json:"job"`
	Timestamp time.Time       `json:"timestamp"`
	Workers   int             `json:"workers"`
	Failed    int             `json:"failed"`
	Stencils  []StencilRecord `json:"stencils"`
}

type StencilRecord struct {
	Name      string        `json:"name"`
	Order     int           `json:"order"`
	At        float64       `json:"at"`
	Points    []float64     `json:"points"`
	AllOrders bool          `json:"all_orders,omitempty"`
	Error     string        `json:"error,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns"`
}

// Row is one line of weights.csv.
type Row struct {
	Index  int
	Point  float64
	Order  int
	Weight float64
}

// Save writes a batch run to <base>/<runID>/ and returns the run ID.
func (s *Store) Save(job string, workers int, results []batch.Result) (string, error) {
	ts := s.now()
	runDir, runID, err := s.createRunDir(job, ts)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Job:       job,
		Timestamp: ts,
		Workers:   workers,
		Stencils:  make([]StencilRecord, len(results)),
	}
	for i, r := range results {
		rec := StencilRecord{
			Name:      r.Spec.Name,
			Order:     r.Spec.Order,
			At:        r.Spec.At,
			Points:    r.Spec.Points,
			AllOrders: r.Spec.AllOrders,
			Elapsed:   r.Elapsed,
		}
		if r.Err != nil {
			rec.Error = r.Err.Error()
			meta.Failed++
		}
		meta.Stencils[i] = rec
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeWeights(filepath.Join(runDir, weightsFile), results); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) createRunDir(job string, ts time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%s", slug(job), ts.UTC().Format("20060102T150405"))
	for n := 0; ; n++ {
		runID := base
		if n > 0 {
			runID = fmt.Sprintf("%s-%d", base, n)
		}
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, runID, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

func slug(name string) string {
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeWeights(path string, results []batch.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"stencil", "index", "point", "order", "weight"}); err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		lo, hi := r.Spec.Order, r.Spec.Order
		if r.Table != nil {
			lo = 0
		}
		for m := lo; m <= hi; m++ {
			col := r.Weights
			if r.Table != nil {
				col = r.Table.Column(m)
			}
			for i, wt := range col {
				row := []string{
					r.Spec.Name,
					strconv.Itoa(i),
					formatFloat(r.Spec.Points[i]),
					strconv.Itoa(m),
					formatFloat(wt),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}

// formatFloat keeps full precision so weights survive a round trip.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns all stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadWeights reads weights.csv, grouping rows by stencil name.
func (s *Store) LoadWeights(runID string) (map[string][]Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, weightsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]Row)
	for n, rec := range records {
		if n == 0 {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", weightsFile, n+1, err)
		}
		out[rec[0]] = append(out[rec[0]], row)
	}
	return out, nil
}

func parseRow(rec []string) (Row, error) {
	var row Row
	var err error
	if row.Index, err = strconv.Atoi(rec[1]); err != nil {
		return row, err
	}
	if row.Point, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return row, err
	}
	if row.Order, err = strconv.Atoi(rec[3]); err != nil {
		return row, err
	}
	if row.Weight, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return row, err
	}
	return row, nil
}

// Column picks the weights of one derivative order out of a stencil's rows.
func Column(rows []Row, order int) (points, weights []float64) {
	for _, r := range rows {
		if r.Order != order {
			continue
		}
		points = append(points, r.Point)
		weights = append(weights, r.Weight)
	}
	return points, weights
}
