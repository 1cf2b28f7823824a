// Package snapshot - Frozen feed source
// A snapshot is a YAML or JSON document holding the raw inventory and
// commitment records of one subscription. It replays them through the same
// pipeline as the live source, which makes analyses reproducible offline.
package snapshot

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"reservation-analysis/core/feed"
	"reservation-analysis/core/types"
	"reservation-analysis/internal/errors"
	"reservation-analysis/internal/logging"
)

// Name is the registry name of this source
const Name = "snapshot"

// File is the on-disk snapshot document
type File struct {
	SubscriptionID string                   `json:"subscription_id" yaml:"subscription_id"`
	CapturedAt     time.Time                `json:"captured_at" yaml:"captured_at"`
	Resources      []types.ResourceRecord   `json:"resources" yaml:"resources"`
	Commitments    []types.CommitmentRecord `json:"commitments" yaml:"commitments"`
}

// Source replays a snapshot file
type Source struct {
	path   string
	logger *zap.Logger
}

// NewSource creates a source reading path on every Open
func NewSource(path string, logger *zap.Logger) *Source {
	return &Source{
		path:   path,
		logger: logging.Named(logger, "snapshot"),
	}
}

// Name implements clouds.Source
func (s *Source) Name() string { return Name }

// Open implements engine.Opener. A snapshot captured for another subscription
// is rejected.
func (s *Source) Open(_ context.Context, subscriptionID string) (feed.InventoryFeed, feed.CommitmentSource, error) {
	f, err := Read(s.path)
	if err != nil {
		return nil, nil, err
	}
	if f.SubscriptionID != "" && !strings.EqualFold(f.SubscriptionID, subscriptionID) {
		return nil, nil, errors.Input("snapshot was captured for a different subscription").
			WithContext("snapshot", f.SubscriptionID).
			WithContext("requested", subscriptionID)
	}

	s.logger.Debug("snapshot opened",
		zap.String("path", s.path),
		zap.Int("resources", len(f.Resources)),
		zap.Int("commitments", len(f.Commitments)),
	)
	return replay{f}, replay{f}, nil
}

// replay serves the records of a loaded file as both feeds
type replay struct {
	file *File
}

func (r replay) Resources(context.Context) iter.Seq2[types.ResourceRecord, error] {
	return feed.Items(r.file.Resources)
}

func (r replay) Commitments(context.Context) iter.Seq2[types.CommitmentRecord, error] {
	return feed.Items(r.file.Commitments)
}

// Read loads a snapshot. JSON is accepted by the YAML decoder.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "read snapshot %s", path)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "parse snapshot %s", path)
	}
	return &f, nil
}

// Write stores f at path, as JSON for a .json extension and YAML otherwise
func Write(path string, f *File) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(f, "", "  ")
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return errors.Internal("encode snapshot", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Internal("create snapshot directory", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Internal("write snapshot", err)
	}
	return nil
}

// Capture drains both feeds into a snapshot. Records are stored unfiltered so
// the eligibility rules can be re-applied on replay.
func Capture(ctx context.Context, subscriptionID string, inventory feed.InventoryFeed, commitments feed.CommitmentSource) (*File, error) {
	resources, err := feed.Collect(inventory.Resources(ctx))
	if err != nil {
		return nil, errors.SourceUnavailable(errors.SourceInventory, err)
	}
	records, err := feed.Collect(commitments.Commitments(ctx))
	if err != nil {
		return nil, errors.SourceUnavailable(errors.SourceCommitments, err)
	}
	return &File{
		SubscriptionID: subscriptionID,
		CapturedAt:     time.Now().UTC(),
		Resources:      resources,
		Commitments:    records,
	}, nil
}
