package connections

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"sld/diagram"
	"sld/geometry"
	"sld/pathfinding"
	"sld/ports"
	"sld/validation"
)

// Errors returned by the connection router.
var (
	ErrRejected      = errors.New("connection rejected")
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// IDPrefix starts every generated connection id.
const IDPrefix = "conn_"

// namespace scopes the name-based connection ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sld:connection"))

// ConnectionID derives the id of a connection from its two endpoints. The same
// endpoints always give the same id.
func ConnectionID(a, b ports.Port) string {
	name := fmt.Sprintf("%s|%s|%s|%s", a.SymbolID, a.Name, b.SymbolID, b.Name)
	return IDPrefix + uuid.NewSHA1(namespace, []byte(name)).String()
}

// Router creates and routes connections between symbol ports.
type Router struct {
	paths  *pathfinding.Router
	logger hclog.Logger
}

// NewRouter creates a connection router on top of a path router.
func NewRouter(paths *pathfinding.Router) *Router {
	return &Router{paths: paths, logger: hclog.NewNullLogger()}
}

// SetLogger sets the logger used for debug output.
func (r *Router) SetLogger(logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r.logger = logger
}

// Create validates a new connection from a to b, routes it and returns it with its
// path filled in. A rejected connection returns an error wrapping ErrRejected with the
// validator message.
func (r *Router) Create(a, b ports.Port, symbols []diagram.Symbol, existing []diagram.Connection) (diagram.Connection, error) {
	if res := validation.ValidateConnection(a, b, existing); !res.Valid {
		return diagram.Connection{}, fmt.Errorf("%w: %s", ErrRejected, res.ErrorMessage)
	}

	path := r.paths.Route(a, b, symbols)
	conn := diagram.Connection{
		ID:           ConnectionID(a, b),
		FromSymbolID: a.SymbolID,
		FromPort:     string(a.Name),
		ToSymbolID:   b.SymbolID,
		ToPort:       string(b.Name),
		Path:         path.Points,
		Type:         validation.ConnectionType(a, b),
	}
	r.logger.Debug("connection created", "id", conn.ID, "type", conn.Type, "bends", path.Bends, "fallback", path.Fallback)
	return conn, nil
}

// Endpoints resolves the two ports of an existing connection against symbols.
func Endpoints(conn diagram.Connection, symbols []diagram.Symbol) (from, to ports.Port, err error) {
	byID := make(map[string]diagram.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}
	return endpoints(conn, byID)
}

func endpoints(conn diagram.Connection, byID map[string]diagram.Symbol) (from, to ports.Port, err error) {
	resolve := func(symbolID, portName string) (ports.Port, error) {
		s, ok := byID[symbolID]
		if !ok {
			return ports.Port{}, fmt.Errorf("connection %s: %w: %q", conn.ID, ErrUnknownSymbol, symbolID)
		}
		name, err := ports.ParsePortName(portName)
		if err != nil {
			return ports.Port{}, fmt.Errorf("connection %s: %w", conn.ID, err)
		}
		return ports.Find(s, name)
	}

	if from, err = resolve(conn.FromSymbolID, conn.FromPort); err != nil {
		return ports.Port{}, ports.Port{}, err
	}
	if to, err = resolve(conn.ToSymbolID, conn.ToPort); err != nil {
		return ports.Port{}, ports.Port{}, err
	}
	return from, to, nil
}

// RouteConnection routes a single existing connection.
func (r *Router) RouteConnection(conn diagram.Connection, symbols []diagram.Symbol) (pathfinding.Path, error) {
	from, to, err := Endpoints(conn, symbols)
	if err != nil {
		return pathfinding.Path{}, err
	}
	return r.paths.Route(from, to, symbols), nil
}

// RouteAll routes every connection independently of the others. Connections are
// processed in id order and the first invalid one stops the run.
func (r *Router) RouteAll(conns []diagram.Connection, symbols []diagram.Symbol) (map[string]pathfinding.Path, error) {
	byID := make(map[string]diagram.Symbol, len(symbols))
	for _, s := range symbols {
		byID[s.ID] = s
	}

	sorted := make([]diagram.Connection, len(conns))
	copy(sorted, conns)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	paths := make(map[string]pathfinding.Path, len(conns))
	fallbacks := 0
	for _, c := range sorted {
		from, to, err := endpoints(c, byID)
		if err != nil {
			return nil, err
		}
		p := r.paths.Route(from, to, symbols)
		if p.Fallback {
			fallbacks++
		}
		paths[c.ID] = p
	}
	r.logger.Debug("routed connections", "count", len(paths), "fallbacks", fallbacks)
	return paths, nil
}

// ApplyPaths returns a copy of conns with paths taken from the map.
func ApplyPaths(conns []diagram.Connection, paths map[string]pathfinding.Path) []diagram.Connection {
	out := make([]diagram.Connection, len(conns))
	for i, c := range conns {
		out[i] = c
		if p, ok := paths[c.ID]; ok {
			out[i].Path = append([]geometry.Point(nil), p.Points...)
		}
	}
	return out
}
