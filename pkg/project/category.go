package project

// OthersCategory collects projects without a known category.
const OthersCategory = "others"

// Category is an ordered bucket of projects in the report.
type Category struct {
	ID       string `yaml:"category" toml:"category"`
	Title    string `yaml:"title" toml:"title"`
	Subtitle string `yaml:"subtitle" toml:"subtitle"`

	Projects       []*Project `yaml:"-" toml:"-"`
	HiddenProjects []*Project `yaml:"-" toml:"-"`
}

// Count returns the number of visible and hidden projects.
func (c *Category) Count() int { return len(c.Projects) + len(c.HiddenProjects) }

// Label is a display tag that projects reference by ID.
type Label struct {
	ID          string `yaml:"label" toml:"label"`
	Name        string `yaml:"name" toml:"name"`
	Image       string `yaml:"image" toml:"image"`
	URL         string `yaml:"url" toml:"url"`
	Description string `yaml:"description" toml:"description"`
	Ignore      bool   `yaml:"ignore" toml:"ignore"`
}
