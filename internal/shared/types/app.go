package types

// Category groups catalog entries for the app menu and app store
type Category string

const (
	CategorySystem       Category = "system"
	CategoryProductivity Category = "productivity"
	CategoryMedia        Category = "media"
	CategoryGame         Category = "game"
)

// Descriptor describes an application available in the catalog
type Descriptor struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Icon        string   `json:"icon" yaml:"icon"`
	Category    Category `json:"category" yaml:"category"`
	DefaultSize Size     `json:"defaultSize" yaml:"defaultSize"`
	EntryPoint  string   `json:"entryPoint" yaml:"entryPoint"` // Renderable unit resolved by the frontend
}
