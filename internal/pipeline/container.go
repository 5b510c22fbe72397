package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ContainerID marks a record as an AYON container.
const ContainerID = "ayon.load.container"

// Container describes one loaded asset reference placed into the scene.
type Container struct {
	Name           string `json:"name"`
	ID             string `json:"id"`
	Namespace      string `json:"namespace"`
	Loader         string `json:"loader"`
	Representation string `json:"representation"`
	ObjectName     string `json:"objectName"`
	Timestamp      int64  `json:"timestamp"`
	Version        string `json:"version"`
}

// NewContainer returns a container with the AYON container id set.
func NewContainer(name, namespace string) Container {
	return Container{Name: name, Namespace: namespace, ID: ContainerID}
}

// Valid reports whether the container carries its identity key.
func (c Container) Valid() bool {
	return c.Name != "" && c.Namespace != ""
}

// Key returns the (name, namespace) identity of the container.
func (c Container) Key() string {
	return c.Namespace + "/" + c.Name
}

// AsMap implements metadata.Record.
func (c Container) AsMap() map[string]any {
	return map[string]any{
		"name":           c.Name,
		"id":             c.ID,
		"namespace":      c.Namespace,
		"loader":         c.Loader,
		"representation": c.Representation,
		"objectName":     c.ObjectName,
		"timestamp":      c.Timestamp,
		"version":        c.Version,
	}
}

// decodeContainer reads a stored record leniently. Scalar fields of a
// foreign type are coerced so that a record with its identity intact is
// never dropped.
func decodeContainer(raw any) (Container, error) {
	switch v := raw.(type) {
	case Container:
		return v, nil
	case map[string]any:
		return Container{
			Name:           coerceString(v["name"]),
			ID:             coerceString(v["id"]),
			Namespace:      coerceString(v["namespace"]),
			Loader:         coerceString(v["loader"]),
			Representation: coerceString(v["representation"]),
			ObjectName:     coerceString(v["objectName"]),
			Timestamp:      coerceInt64(v["timestamp"]),
			Version:        coerceString(v["version"]),
		}, nil
	default:
		return Container{}, fmt.Errorf("decode container: unexpected %T", raw)
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

// coerceInt64 accepts integer, float and numeric string timestamps. Anything
// else reads as zero.
func coerceInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case json.Number:
		return parseInt64(string(t))
	case string:
		return parseInt64(strings.TrimSpace(t))
	default:
		return 0
	}
}

func parseInt64(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
