// Package listing defines the frontend listing schema: its columns, the values
// a submitter provides, their validation and the JSON document stored on IPFS.
package listing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column labels. These are also the keys of Document.Values and the labels
// of the subgraph item props.
const (
	LabelName        = "Name"
	LabelDescription = "Description"
	LabelNetwork     = "Network name"
	LabelLocator     = "Locator ID"
	LabelRepository  = "Repository URL"
	LabelCommit      = "Commit hash"
	LabelVersion     = "Version tag (optional)"
	LabelAdditional  = "Additional information (Optional)"
)

// DefaultNetwork is the storage network a new listing starts with.
const DefaultNetwork = "IPFS"

// Column describes one field of a listing.
type Column struct {
	Label        string `json:"label"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	IsIdentifier bool   `json:"isIdentifier,omitempty"`
}

// Columns is the listing schema in display order.
var Columns = []Column{
	{Label: LabelName, Type: "text", IsIdentifier: true,
		Description: "Name of the protocol that this frontend is for."},
	{Label: LabelDescription, Type: "long text",
		Description: "A brief description of the entry and what it is and does within the protocol."},
	{Label: LabelNetwork, Type: "text",
		Description: "The name of the decentralized file storage network that the file is on."},
	{Label: LabelLocator, Type: "text", IsIdentifier: true,
		Description: "The unique ID/hash used to locate the file(s) in question within the decentralized file storage network."},
	{Label: LabelRepository, Type: "link", IsIdentifier: true,
		Description: "URL where the repository can be found (on Github or other sources)."},
	{Label: LabelCommit, Type: "text", IsIdentifier: true,
		Description: "The hash of the commit within this Git repository represents the state of it such that if you build the project you get the exact file(s) in this entry. A short hash format of at least the 7 first characters is acceptable."},
	{Label: LabelVersion, Type: "text",
		Description: "The tag present in Git corresponding to the Commit hash."},
	{Label: LabelAdditional, Type: "long text",
		Description: "This is a field for providing any additional information relevant for the verification of the information in the entry."},
}

// Listing holds the values of one frontend submission.
type Listing struct {
	Name           string `json:"name" yaml:"name" label:"Name" validate:"required"`
	Description    string `json:"description" yaml:"description" label:"Description" validate:"required"`
	NetworkName    string `json:"network_name" yaml:"network_name" label:"Network name" validate:"required"`
	LocatorID      string `json:"locator_id" yaml:"locator_id" label:"Locator ID" validate:"required"`
	RepositoryURL  string `json:"repository_url" yaml:"repository_url" label:"Repository URL" validate:"required,weburl"`
	CommitHash     string `json:"commit_hash" yaml:"commit_hash" label:"Commit hash" validate:"required,min=7"`
	VersionTag     string `json:"version_tag,omitempty" yaml:"version_tag,omitempty" label:"Version tag (optional)"`
	AdditionalInfo string `json:"additional_info,omitempty" yaml:"additional_info,omitempty" label:"Additional information (Optional)"`
}

// New returns an empty listing with the default network.
func New() *Listing {
	return &Listing{NetworkName: DefaultNetwork}
}

// Normalize trims surrounding whitespace from every value.
func (l *Listing) Normalize() {
	for _, f := range []*string{
		&l.Name, &l.Description, &l.NetworkName, &l.LocatorID,
		&l.RepositoryURL, &l.CommitHash, &l.VersionTag, &l.AdditionalInfo,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Values maps column labels to values. Optional fields are present as "".
func (l *Listing) Values() map[string]string {
	return map[string]string{
		LabelName:        l.Name,
		LabelDescription: l.Description,
		LabelNetwork:     l.NetworkName,
		LabelLocator:     l.LocatorID,
		LabelRepository:  l.RepositoryURL,
		LabelCommit:      l.CommitHash,
		LabelVersion:     l.VersionTag,
		LabelAdditional:  l.AdditionalInfo,
	}
}

// Document is the item JSON uploaded to IPFS and referenced by the registry.
type Document struct {
	Columns []Column          `json:"columns"`
	Values  map[string]string `json:"values"`
}

// Document builds the item document.
func (l *Listing) Document() Document {
	return Document{Columns: Columns, Values: l.Values()}
}

// ItemFileName is the file name item documents are uploaded under.
const ItemFileName = "item.json"

// Load reads a listing from a YAML or JSON file. Missing network names
// default to IPFS.
func Load(path string) (*Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading listing file: %w", err)
	}

	l := New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, l); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, l); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, l); err != nil {
			if jsonErr := json.Unmarshal(data, l); jsonErr != nil {
				return nil, fmt.Errorf("parsing listing file (tried YAML and JSON): %w", err)
			}
		}
	}
	if l.NetworkName == "" {
		l.NetworkName = DefaultNetwork
	}
	l.Normalize()
	return l, nil
}
