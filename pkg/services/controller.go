package services

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/utils"
)

// EncodeRequest is everything needed to turn a chapters directory into volumes.
type EncodeRequest struct {
	Input           string
	Method          data.Method
	Range           data.Range
	Discovery       DiscoveryOptions
	Options         EncodeOptions
	CreateOutputDir bool
}

// Controller wires discovery, planning and the services together for the CLI.
type Controller struct {
	logger     *slog.Logger
	repo       *data.Repository
	onProgress func(VolumeProgress)
}

// NewController returns a controller logging to logger. repo may be nil to
// disable the build history.
func NewController(logger *slog.Logger, repo *data.Repository) *Controller {
	return &Controller{logger: utils.OrDiscard(logger), repo: repo}
}

// OnProgress forwards volume progress to fn.
func (c *Controller) OnProgress(fn func(VolumeProgress)) {
	c.onProgress = fn
}

// Plan discovers the chapters of the request and maps them onto volumes without writing anything.
// It also resolves the output locations of the request.
func (c *Controller) Plan(req *EncodeRequest) (*data.Plan, error) {
	if err := ValidateRange(req.Range); err != nil {
		return nil, err
	}

	if err := c.resolveOutput(req); err != nil {
		return nil, err
	}

	chapters, err := DiscoverChapters(req.Input, req.Discovery)
	if err != nil {
		return nil, err
	}

	plan, err := PlanVolumes(chapters, req.Method, req.Range)
	if err != nil {
		return nil, err
	}

	if plan.SelectedChapters == 0 {
		c.logger.Warn("No chapter found. Nothing to do.")
		return plan, nil
	}
	if !req.Options.Rebuilding {
		c.logger.Info(fmt.Sprintf("Going to treat chapters %d to %d (%d out of %d, %d to ignore) into %d volume(s).",
			plan.FirstChapter, plan.LastChapter(), plan.SelectedChapters, plan.TotalChapters, plan.Ignored(), len(plan.Volumes)))
	}
	return plan, nil
}

// Encode plans then builds the volumes of req.
func (c *Controller) Encode(req *EncodeRequest) ([]string, error) {
	if err := ValidateEncode(req.Method, req.Options); err != nil {
		return nil, err
	}

	plan, err := c.Plan(req)
	if err != nil {
		return nil, err
	}

	produced, err := c.newEncoder(req.Options).Encode(plan)
	if err != nil {
		return produced, err
	}

	if !req.Options.Rebuilding {
		c.logger.Info(fmt.Sprintf("Successfully built %d volume(s).", len(produced)))
	}
	return produced, nil
}

// Decode extracts an archive into a directory of pages.
func (c *Controller) Decode(input string, opts DecodeOptions, progress func(done, total int)) (string, []string, error) {
	return NewDecoder(opts, c.logger).OnProgress(progress).Decode(input)
}

// Rebuild re-packs an archive as a single normalized volume.
func (c *Controller) Rebuild(input string, opts RebuildOptions) (string, error) {
	r := NewRebuilder(opts, c.logger)
	if c.repo != nil {
		r.WithRepository(c.repo)
	}
	return r.Rebuild(input)
}

// History returns the most recent volumes recorded, newest first.
func (c *Controller) History(limit int) ([]*data.VolumeRecord, error) {
	if c.repo == nil {
		return nil, nil
	}
	return c.repo.ListVolumes(limit)
}

// ForgetVolume removes the history record with the given id and returns it.
// The archive itself is left alone.
func (c *Controller) ForgetVolume(id string) (*data.VolumeRecord, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("%w: %s", data.ErrRecordNotFound, id)
	}

	v, err := c.repo.GetVolume(id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", data.ErrRecordNotFound, id)
	}

	if err := c.repo.DeleteVolume(id); err != nil {
		return nil, err
	}
	c.logger.Debug("Forgot volume", "id", id, "path", v.Path)
	return v, nil
}

// Close releases the history database.
func (c *Controller) Close() error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Close()
}

func (c *Controller) newEncoder(opts EncodeOptions) *Encoder {
	e := NewEncoder(opts, c.logger).OnProgress(c.onProgress)
	if c.repo != nil {
		e.WithRepository(c.repo)
	}
	return e
}

// resolveOutput fills in default output locations and makes sure they exist.
func (c *Controller) resolveOutput(req *EncodeRequest) error {
	if single, ok := req.Method.(data.Single); ok {
		if single.Output == "" {
			ext := req.Options.Format.Ext()
			if req.Options.Format == "" {
				ext = ".cbz"
			}
			single.Output = filepath.Clean(req.Input) + ext
			req.Method = single
		}
		return ensureDir(filepath.Dir(single.Output), req.CreateOutputDir)
	}

	if req.Options.OutputDir == "" {
		req.Options.OutputDir = req.Input
		return nil
	}
	return ensureDir(req.Options.OutputDir, req.CreateOutputDir)
}
