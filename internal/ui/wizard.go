package ui

import (
	"errors"
	"regexp"

	"github.com/charmbracelet/huh"
)

// WizardResult holds answers collected by the setup wizard. Fields start out
// as the current configuration.
type WizardResult struct {
	Network      string
	RPCAlgorithm string
	Registry     string
	SubgraphURL  string
	SubgraphKey  string
	IPFSAPIURL   string
	IPFSGateway  string
}

var (
	hexAddress = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	httpURL    = regexp.MustCompile(`^https?://.+`)
)

// RunWizard walks through the settings lcurate needs. networks are the chain
// names offered for the registry.
func RunWizard(r *WizardResult, networks []string) error {
	netOpts := make([]huh.Option[string], len(networks))
	for i, n := range networks {
		netOpts[i] = huh.NewOption(n, n)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Network").
				Description("Chain the registry contract lives on.").
				Options(netOpts...).
				Value(&r.Network),
			huh.NewSelect[string]().
				Title("RPC selection").
				Options(
					huh.NewOption("fastest: lowest latency, near the chain tip", "fastest"),
					huh.NewOption("round-robin: rotate between healthy nodes", "round-robin"),
					huh.NewOption("failover: first healthy node in order", "failover"),
				).
				Value(&r.RPCAlgorithm),
		).Title("Chain"),
		huh.NewGroup(
			huh.NewInput().
				Title("Registry address").
				Value(&r.Registry).
				Validate(matches(hexAddress, "Must be a 0x-prefixed 20-byte address")),
			huh.NewInput().
				Title("Subgraph URL").
				Value(&r.SubgraphURL).
				Validate(matches(httpURL, "Must be a valid URL starting with http:// or https://")),
			huh.NewInput().
				Title("Subgraph API key").
				Description("Optional. Sent as a bearer token.").
				EchoMode(huh.EchoModePassword).
				Value(&r.SubgraphKey),
		).Title("Registry"),
		huh.NewGroup(
			huh.NewInput().
				Title("IPFS API").
				Description("Node used to upload listings and evidence.").
				Value(&r.IPFSAPIURL).
				Validate(matches(httpURL, "Must be a valid URL starting with http:// or https://")),
			huh.NewInput().
				Title("IPFS gateway").
				Value(&r.IPFSGateway).
				Validate(matches(httpURL, "Must be a valid URL starting with http:// or https://")),
		).Title("IPFS"),
	)
	return runForm(form, "setup wizard")
}

func matches(re *regexp.Regexp, msg string) func(string) error {
	return func(s string) error {
		if !re.MatchString(s) {
			return errors.New(msg)
		}
		return nil
	}
}
