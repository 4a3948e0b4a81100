// Package jobs runs units of work in the background and persists each
// outcome as a JSON file keyed by a generated job id, so callers poll
// the file instead of holding a handle to the work.
package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fileapi/internal/spawn"
)

// Work is one unit of background work.
type Work func() (any, error)

// StatusComplete tags every persisted result, failed or not; pollers
// distinguish the outcomes by which of data/error is present.
const StatusComplete = "complete"

type result struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Runner struct {
	resultsDir string
	spawner    *spawn.Spawner
	logger     *logrus.Logger
}

func NewRunner(resultsDir string, sp *spawn.Spawner, logger *logrus.Logger) *Runner {
	return &Runner{resultsDir: resultsDir, spawner: sp, logger: logger}
}

// ResultPath derives the result file location for a job id.
func (r *Runner) ResultPath(id string) string {
	return filepath.Join(r.resultsDir, id+".json")
}

// Job is a bound unit of work that has not necessarily started.
type Job struct {
	id     string
	work   Work
	runner *Runner
}

// Create binds work to a fresh job id. The job does not run until
// Start is called.
func (r *Runner) Create(work Work) *Job {
	return &Job{id: uuid.New().String(), work: work, runner: r}
}

func (j *Job) ID() string {
	return j.id
}

// Start begins execution on a background task and returns the job id
// immediately. Failures of the work never propagate here; they end up
// encoded in the result file.
func (j *Job) Start() string {
	j.runner.spawner.Go("job "+j.id, j.execute)
	return j.id
}

func (j *Job) execute() {
	res := result{Status: StatusComplete}

	func() {
		defer func() {
			if v := recover(); v != nil {
				res.Error = fmt.Sprintf("panic: %v\n%s", v, debug.Stack())
			}
		}()
		data, err := j.work()
		if err != nil {
			res.Error = err.Error()
			return
		}
		res.Data = data
	}()

	// A zero or empty result with no error writes no file at all, and
	// a poller would wait forever. Known defect kept for
	// compatibility; pollers must bring their own deadline.
	if !truthy(res.Data) && res.Error == "" {
		return
	}

	path := j.runner.ResultPath(j.id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		j.runner.logger.Errorf("job %s: failed to create results dir: %v", j.id, err)
		return
	}
	buf, err := json.Marshal(res)
	if err != nil {
		j.runner.logger.Errorf("job %s: failed to encode result: %v", j.id, err)
		return
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		j.runner.logger.Errorf("job %s: failed to write result: %v", j.id, err)
	}
}

// truthy treats nil, zero, and empty values as absent.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String, reflect.Chan:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}
