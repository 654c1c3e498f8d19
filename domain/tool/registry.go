package tool

// Registry holds the tools a server exposes.
// This is a repository interface - implementations are in infrastructure.
type Registry interface {
	// Register adds a tool to the registry.
	Register(tool Tool) error

	// Get retrieves a tool by name.
	Get(name string) (Tool, bool)

	// List returns all registered tools ordered by name.
	List() []Tool

	// Names returns all registered tool names, sorted.
	Names() []string
}
