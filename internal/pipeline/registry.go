package pipeline

import (
	"fmt"
	"log/slog"

	"equalizer/internal/logging"
	"equalizer/internal/metadata"
)

// Registry reads and writes containers, publish instances and context data
// of one project document.
type Registry struct {
	store  metadata.Store
	logger *slog.Logger
}

// NewRegistry binds a registry to store. A nil logger discards output.
func NewRegistry(store metadata.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logging.NewComponentLogger(logger, "registry"),
	}
}

// Store returns the underlying metadata store.
func (r *Registry) Store() metadata.Store {
	return r.store
}

// ListContainers returns every valid container in document order.
func (r *Registry) ListContainers() ([]Container, error) {
	doc, err := r.store.ReadDocument()
	if err != nil {
		return nil, err
	}
	list, err := asList(doc[metadata.KeyContainers])
	if err != nil {
		return nil, fmt.Errorf("containers: %w", err)
	}

	containers := make([]Container, 0, len(list))
	for _, raw := range list {
		c, err := decodeContainer(raw)
		if err != nil {
			r.logger.Debug("skipping unreadable container", logging.Error(err))
			continue
		}
		if !c.Valid() {
			continue
		}
		containers = append(containers, c)
	}
	return containers, nil
}

// AddContainer stores c, replacing any container with the same name and
// namespace. The new record always lands at the end of the list.
func (r *Registry) AddContainer(c Container) error {
	existing, err := r.ListContainers()
	if err != nil {
		return err
	}

	kept := make([]Container, 0, len(existing)+1)
	for _, item := range existing {
		if item.Name == c.Name && item.Namespace == c.Namespace {
			continue
		}
		kept = append(kept, item)
	}
	kept = append(kept, c)

	if err := r.store.WriteDocument(metadata.Document{metadata.KeyContainers: kept}); err != nil {
		return err
	}
	r.logger.Debug("container stored",
		logging.String(logging.FieldContainer, c.Key()),
		logging.String("representation", c.Representation))
	return nil
}

// ListInstances returns the publish instances created by creatorIdentifier,
// or all of them when creatorIdentifier is empty.
func (r *Registry) ListInstances(creatorIdentifier string) ([]Instance, error) {
	all, err := r.instances()
	if err != nil {
		return nil, err
	}
	if creatorIdentifier == "" {
		return all, nil
	}
	filtered := make([]Instance, 0, len(all))
	for _, inst := range all {
		if inst.CreatorIdentifier() == creatorIdentifier {
			filtered = append(filtered, inst)
		}
	}
	return filtered, nil
}

// AddInstance appends inst. Unique instance ids are the creator's job.
func (r *Registry) AddInstance(inst Instance) error {
	all, err := r.instances()
	if err != nil {
		return err
	}
	all = append(all, inst)
	if err := r.WriteInstances(all); err != nil {
		return err
	}
	r.logger.Debug("publish instance added",
		logging.String(logging.FieldInstanceID, inst.ID()),
		logging.String(logging.FieldCreator, inst.CreatorIdentifier()))
	return nil
}

// UpdateInstance replaces the first instance with the given id by fields, so
// the record ends up with exactly the keys in fields. When no instance has
// that id, fields is appended as a new record. Callers must carry
// instance_id in fields; it is not copied over from the old record.
func (r *Registry) UpdateInstance(id string, fields Instance) error {
	all, err := r.instances()
	if err != nil {
		return err
	}

	found := false
	for idx, inst := range all {
		if inst.ID() == id {
			all[idx] = fields
			found = true
			break
		}
	}
	if !found {
		all = append(all, fields)
	}
	if err := r.WriteInstances(all); err != nil {
		return err
	}
	r.logger.Debug("publish instance updated",
		logging.String(logging.FieldInstanceID, id),
		logging.Bool("inserted", !found))
	return nil
}

// RemoveInstance drops every instance with the given id.
func (r *Registry) RemoveInstance(id string) error {
	all, err := r.instances()
	if err != nil {
		return err
	}
	kept := all[:0]
	removed := 0
	for _, inst := range all {
		if inst.ID() == id {
			removed++
			continue
		}
		kept = append(kept, inst)
	}
	if err := r.WriteInstances(kept); err != nil {
		return err
	}
	r.logger.Debug("publish instance removed",
		logging.String(logging.FieldInstanceID, id),
		logging.Int("removed", removed))
	return nil
}

// WriteInstances replaces the whole publish instance collection.
func (r *Registry) WriteInstances(list []Instance) error {
	if list == nil {
		list = []Instance{}
	}
	return r.store.WriteDocument(metadata.Document{metadata.KeyPublishInstances: list})
}

// Context returns the context mapping, empty when none was stored.
func (r *Registry) Context() (map[string]any, error) {
	doc, err := r.store.ReadDocument()
	if err != nil {
		return nil, err
	}
	ctx, ok := doc[metadata.KeyContext].(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return ctx, nil
}

// UpdateContext replaces the context mapping. Empty data is ignored.
func (r *Registry) UpdateContext(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	return r.store.WriteDocument(metadata.Document{metadata.KeyContext: data})
}

func (r *Registry) instances() ([]Instance, error) {
	doc, err := r.store.ReadDocument()
	if err != nil {
		return nil, err
	}
	list, err := asList(doc[metadata.KeyPublishInstances])
	if err != nil {
		return nil, fmt.Errorf("publish instances: %w", err)
	}
	out := make([]Instance, 0, len(list))
	for _, raw := range list {
		inst, err := decodeInstance(raw)
		if err != nil {
			r.logger.Debug("skipping unreadable publish instance", logging.Error(err))
			continue
		}
		out = append(out, inst)
	}
	return out, nil
}
