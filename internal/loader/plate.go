package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"equalizer/internal/logging"
	"equalizer/internal/pipeline"
)

// LoaderName is recorded on every container this package creates.
const LoaderName = "LoadPlate"

// ErrCameraNotFound is returned by Update when the container's camera no
// longer exists in the scene.
var ErrCameraNotFound = errors.New("camera not found")

// ProductTypes lists the product types the plate loader accepts.
var ProductTypes = []string{"imagesequence", "review", "render", "plate", "image", "online"}

// ImageExtensions lists the file extensions the plate loader accepts,
// without the leading dot.
var ImageExtensions = []string{
	"bmp", "cin", "dds", "dpx", "exr", "gif", "hdr", "hdri", "ico", "jp2",
	"jpeg", "jpg", "kra", "pbm", "pgm", "png", "ppm", "psd", "rgb", "rgba",
	"sgi", "tga", "tif", "tiff", "webp", "xcf",
}

// Sequence holds the camera settings derived from a published version.
type Sequence struct {
	Path   string
	Start  int
	End    int
	Step   int
	Offset int
	FPS    float64
}

// Cameras is the scene camera API the loader drives.
type Cameras interface {
	// Create adds a sequence camera named name and returns the name the
	// scene actually assigned.
	Create(name string) (string, error)
	// Names lists the cameras in scene order.
	Names() ([]string, error)
	// Configure points the named camera at seq.
	Configure(name string, seq Sequence) error
}

// Representation is the published file set being loaded.
type Representation struct {
	ID   string
	Path string
	// Context carries the representation template data; a non-empty
	// "frame" entry marks a sequence.
	Context map[string]any
}

// Version is the published version a representation belongs to.
type Version struct {
	Version    int
	Attributes map[string]any
}

// Context bundles what a load or update acts on.
type Context struct {
	ProductType    string
	Representation Representation
	Version        Version
}

// Plate loads image sequences onto cameras.
type Plate struct {
	registry *pipeline.Registry
	cameras  Cameras
	logger   *slog.Logger
	now      func() time.Time
}

// NewPlate returns a plate loader writing containers to registry.
func NewPlate(registry *pipeline.Registry, cameras Cameras, logger *slog.Logger) *Plate {
	return &Plate{
		registry: registry,
		cameras:  cameras,
		logger:   logging.NewComponentLogger(logger, "loader"),
		now:      time.Now,
	}
}

// Accepts reports whether the loader handles productType files with ext.
func Accepts(productType, ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return slices.Contains(ProductTypes, productType) && slices.Contains(ImageExtensions, ext)
}

// Load creates a camera for the representation and records a container
// whose namespace is the camera name.
func (p *Plate) Load(ctx Context, name string) (pipeline.Container, error) {
	if !Accepts(ctx.ProductType, filepath.Ext(ctx.Representation.Path)) {
		return pipeline.Container{}, fmt.Errorf("plate loader does not accept %s %s", ctx.ProductType, ctx.Representation.Path)
	}
	seq, err := p.sequence(ctx)
	if err != nil {
		return pipeline.Container{}, err
	}

	cameraName, err := p.cameras.Create(name)
	if err != nil {
		return pipeline.Container{}, fmt.Errorf("create camera: %w", err)
	}
	if err := p.cameras.Configure(cameraName, seq); err != nil {
		return pipeline.Container{}, fmt.Errorf("configure camera %s: %w", cameraName, err)
	}

	container := pipeline.NewContainer(name, cameraName)
	container.Loader = LoaderName
	container.Representation = ctx.Representation.ID
	container.ObjectName = cameraName
	container.Version = strconv.Itoa(ctx.Version.Version)
	container.Timestamp = p.now().UnixNano()
	if err := p.registry.AddContainer(container); err != nil {
		return pipeline.Container{}, err
	}

	p.logger.Info("plate loaded",
		logging.String(logging.FieldContainer, container.Key()),
		logging.String("path", seq.Path))
	return container, nil
}

// Update re-points the camera named by the container's namespace at a new
// representation and stores the container with the new representation and
// version.
func (p *Plate) Update(container pipeline.Container, ctx Context) (pipeline.Container, error) {
	names, err := p.cameras.Names()
	if err != nil {
		return container, fmt.Errorf("list cameras: %w", err)
	}
	if !slices.Contains(names, container.Namespace) {
		return container, fmt.Errorf("%w: %s", ErrCameraNotFound, container.Namespace)
	}

	seq, err := p.sequence(ctx)
	if err != nil {
		return container, err
	}
	if err := p.cameras.Configure(container.Namespace, seq); err != nil {
		return container, fmt.Errorf("configure camera %s: %w", container.Namespace, err)
	}

	container.Representation = ctx.Representation.ID
	container.Version = strconv.Itoa(ctx.Version.Version)
	if err := p.registry.AddContainer(container); err != nil {
		return container, err
	}
	p.logger.Info("plate updated",
		logging.String(logging.FieldContainer, container.Key()),
		logging.String("path", seq.Path))
	return container, nil
}

func (p *Plate) sequence(ctx Context) (Sequence, error) {
	frame := ""
	if raw, ok := ctx.Representation.Context["frame"]; ok && raw != nil {
		frame = fmt.Sprint(raw)
	}
	path, err := FormatPath(ctx.Representation.Path, frame)
	if err != nil {
		return Sequence{}, err
	}
	start, end, err := FrameRange(ctx.Version.Attributes)
	if err != nil {
		return Sequence{}, err
	}
	fps, err := FPS(ctx.Version.Attributes)
	if err != nil {
		return Sequence{}, fmt.Errorf("version attribute fps: %w", err)
	}
	return Sequence{
		Path:   path,
		Start:  start,
		End:    end,
		Step:   1,
		Offset: start,
		FPS:    fps,
	}, nil
}
