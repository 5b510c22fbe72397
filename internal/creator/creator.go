package creator

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"equalizer/internal/config"
	"equalizer/internal/logging"
	"equalizer/internal/naming"
	"equalizer/internal/pipeline"
)

// Identifiers of the built-in creators.
const (
	LensDistortionIdentifier = "io.ayon.creators.equalizer.lens_distortion"
	MatchmoveIdentifier      = "io.ayon.creators.equalizer.matchmove"
)

// ErrUnknownCreator is returned by Lookup for unregistered identifiers.
var ErrUnknownCreator = errors.New("unknown creator")

// Definition describes a creator plugin.
type Definition struct {
	Identifier      string
	Label           string
	ProductType     string
	Icon            string
	DefaultVariants []string
}

// Change pairs an instance id with its complete new field set.
type Change struct {
	ID     string
	Fields pipeline.Instance
}

// Creator manages the publish instances of one Definition.
type Creator struct {
	def      Definition
	registry *pipeline.Registry
	logger   *slog.Logger
}

// New binds def to registry.
func New(def Definition, registry *pipeline.Registry, logger *slog.Logger) *Creator {
	return &Creator{
		def:      def,
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "creator").With(logging.String(logging.FieldCreator, def.Identifier)),
	}
}

// Definition returns the creator's definition.
func (c *Creator) Definition() Definition {
	return c.def
}

// Create builds a publish instance for variant, stores it and returns it.
// data is copied onto the instance; the identity fields always win.
func (c *Creator) Create(variant string, data map[string]any) (pipeline.Instance, error) {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		if len(c.def.DefaultVariants) == 0 {
			return nil, fmt.Errorf("%s: variant is required", c.def.Identifier)
		}
		variant = c.def.DefaultVariants[0]
	}

	productName := naming.ProductName(c.def.ProductType, variant)
	inst := pipeline.Instance{}
	for k, v := range data {
		inst[k] = v
	}
	inst["id"] = pipeline.InstanceID
	inst[pipeline.FieldInstanceID] = uuid.NewString()
	inst[pipeline.FieldCreator] = c.def.Identifier
	inst["productType"] = c.def.ProductType
	inst["productName"] = productName
	inst["variant"] = variant
	if _, ok := inst["active"]; !ok {
		inst["active"] = true
	}

	if err := c.registry.AddInstance(inst); err != nil {
		return nil, fmt.Errorf("create %s: %w", productName, err)
	}
	c.logger.Info("publish instance created",
		logging.String(logging.FieldEventType, "instance_created"),
		logging.String(logging.FieldInstanceID, inst.ID()),
		logging.String("product_name", productName))
	return inst, nil
}

// Collect returns the instances owned by this creator.
func (c *Creator) Collect() ([]pipeline.Instance, error) {
	return c.registry.ListInstances(c.def.Identifier)
}

// Update applies each change. The instance_id and creator_identifier fields
// are filled in from the change when missing so the record stays owned by
// this creator.
func (c *Creator) Update(changes []Change) error {
	for _, change := range changes {
		fields := change.Fields.Clone()
		if fields.ID() == "" {
			fields[pipeline.FieldInstanceID] = change.ID
		}
		if fields.CreatorIdentifier() == "" {
			fields[pipeline.FieldCreator] = c.def.Identifier
		}
		if err := c.registry.UpdateInstance(change.ID, fields); err != nil {
			return fmt.Errorf("update instance %s: %w", change.ID, err)
		}
	}
	return nil
}

// Remove deletes the instances with the given ids.
func (c *Creator) Remove(ids ...string) error {
	for _, id := range ids {
		if err := c.registry.RemoveInstance(id); err != nil {
			return fmt.Errorf("remove instance %s: %w", id, err)
		}
	}
	return nil
}

// Definitions returns the built-in creator definitions enabled in cfg.
func Definitions(cfg *config.Config) []Definition {
	var defs []Definition
	if cfg.Create.LensDistortion.Enabled {
		defs = append(defs, Definition{
			Identifier:      LensDistortionIdentifier,
			Label:           "Lens Distortion",
			ProductType:     "lensDistortion",
			Icon:            "glasses",
			DefaultVariants: slices.Clone(cfg.Create.LensDistortion.DefaultVariants),
		})
	}
	if cfg.Create.MatchMove.Enabled {
		defs = append(defs, Definition{
			Identifier:      MatchmoveIdentifier,
			Label:           "Match Move",
			ProductType:     "matchmove",
			Icon:            "camera",
			DefaultVariants: slices.Clone(cfg.Create.MatchMove.DefaultVariants),
		})
	}
	return defs
}

// Builtins binds every enabled built-in creator to registry.
func Builtins(cfg *config.Config, registry *pipeline.Registry, logger *slog.Logger) []*Creator {
	defs := Definitions(cfg)
	creators := make([]*Creator, 0, len(defs))
	for _, def := range defs {
		creators = append(creators, New(def, registry, logger))
	}
	return creators
}

// Lookup finds an enabled creator by identifier, label or product type.
func Lookup(creators []*Creator, name string) (*Creator, error) {
	for _, c := range creators {
		def := c.Definition()
		if strings.EqualFold(def.Identifier, name) ||
			strings.EqualFold(def.Label, name) ||
			strings.EqualFold(def.ProductType, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCreator, name)
}
