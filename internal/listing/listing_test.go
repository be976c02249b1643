package listing_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() *listing.Listing {
	l := listing.New()
	l.Name = "Uniswap"
	l.Description = "Swap interface"
	l.LocatorID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	l.RepositoryURL = "https://github.com/Uniswap/interface"
	l.CommitHash = "a1b2c3d"
	return l
}

func TestNewDefaultsNetwork(t *testing.T) {
	assert.Equal(t, "IPFS", listing.New().NetworkName)
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, valid().Validate())
}

func TestValidateRequired(t *testing.T) {
	l := &listing.Listing{}
	err := l.Validate()
	require.Error(t, err)

	var verr *listing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Name is required", verr.Field(listing.LabelName))
	assert.Equal(t, "Description is required", verr.Field(listing.LabelDescription))
	assert.Equal(t, "Network name is required", verr.Field(listing.LabelNetwork))
	assert.Equal(t, "Locator ID is required", verr.Field(listing.LabelLocator))
	assert.Equal(t, "Repository URL is required", verr.Field(listing.LabelRepository))
	assert.Equal(t, "Commit hash is required", verr.Field(listing.LabelCommit))
	assert.Empty(t, verr.Field(listing.LabelVersion))
	assert.Len(t, verr.Fields, 6)
}

func TestValidateWhitespaceOnly(t *testing.T) {
	l := valid()
	l.Name = "   "
	var verr *listing.ValidationError
	require.ErrorAs(t, l.Validate(), &verr)
	assert.Equal(t, "Name is required", verr.Field(listing.LabelName))
}

func TestValidateURL(t *testing.T) {
	for _, u := range []string{"github.com/x", "ftp://host/x", "https://"} {
		l := valid()
		l.RepositoryURL = u
		var verr *listing.ValidationError
		require.ErrorAs(t, l.Validate(), &verr, u)
		assert.Equal(t, "Must be a valid URL starting with http:// or https://", verr.Field(listing.LabelRepository))
	}

	l := valid()
	l.RepositoryURL = "http://gitlab.example/x"
	assert.NoError(t, l.Validate())
}

func TestValidateCommitLength(t *testing.T) {
	l := valid()
	l.CommitHash = "abc123"
	var verr *listing.ValidationError
	require.ErrorAs(t, l.Validate(), &verr)
	assert.Equal(t, "Commit hash must be at least 7 characters", verr.Field(listing.LabelCommit))
	assert.Equal(t, "Commit hash must be at least 7 characters", verr.Error())
}

func TestValidateField(t *testing.T) {
	assert.NoError(t, listing.ValidateField(listing.LabelCommit, "abcdef0"))
	assert.EqualError(t, listing.ValidateField(listing.LabelCommit, "abc"), "Commit hash must be at least 7 characters")
	assert.EqualError(t, listing.ValidateField(listing.LabelName, ""), "Name is required")
	assert.NoError(t, listing.ValidateField(listing.LabelVersion, ""))
}

func TestDocument(t *testing.T) {
	l := valid()
	l.VersionTag = "v1.0.0"
	doc := l.Document()

	require.Len(t, doc.Columns, 8)
	assert.Equal(t, "Name", doc.Columns[0].Label)
	assert.True(t, doc.Columns[0].IsIdentifier)
	assert.Equal(t, "link", doc.Columns[4].Type)
	assert.Equal(t, "v1.0.0", doc.Values[listing.LabelVersion])
	assert.Equal(t, "", doc.Values[listing.LabelAdditional])

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic, "columns")
	assert.Contains(t, generic, "values")
	col := generic["columns"].([]any)[1].(map[string]any)
	assert.NotContains(t, col, "isIdentifier")
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: " Uniswap "
description: Swap interface
locator_id: QmHash
repository_url: https://github.com/Uniswap/interface
commit_hash: a1b2c3d
`), 0o600))

	l, err := listing.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Uniswap", l.Name)
	assert.Equal(t, "IPFS", l.NetworkName)
	assert.NoError(t, l.Validate())
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontend.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Aave","network_name":"Swarm","commit_hash":"1234567"}`), 0o600))

	l, err := listing.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Aave", l.Name)
	assert.Equal(t, "Swarm", l.NetworkName)
	assert.Equal(t, "1234567", l.CommitHash)
}

func TestLoadErrors(t *testing.T) {
	_, err := listing.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err = listing.Load(path)
	assert.ErrorContains(t, err, "parsing JSON")
}

func TestEvidenceValidate(t *testing.T) {
	e := &listing.Evidence{Title: " ", Description: ""}
	var verr *listing.ValidationError
	require.ErrorAs(t, e.Validate(), &verr)
	assert.Equal(t, "Title is required", verr.Field("Title"))
	assert.Equal(t, "Description is required", verr.Field("Description"))

	e = &listing.Evidence{Title: "Outdated", Description: "Locator serves old build"}
	assert.NoError(t, e.Validate())
}
