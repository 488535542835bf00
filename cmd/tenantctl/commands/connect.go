package commands

import (
	"fmt"
	"os"

	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/graphops-io/tenantctl/pkg/graphclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// connectFlags carries the credential-flow selection for one invocation.
type connectFlags struct {
	clientID     string
	clientSecret string
	certificate  string
	certPassword string
	certFile     string
	keyFile      string
	deviceCode   bool
	interactive  bool
	accessToken  string
}

// NewConnectCommand creates the connect command.
func NewConnectCommand() *cobra.Command {
	flags := &connectFlags{}

	cmd := &cobra.Command{
		Use:   "connect [TENANT_ID]",
		Short: "Authenticate against a tenant",
		Long: `Authenticate against a tenant and make it the current one.

The credential flow is chosen by flags: --client-secret, --certificate (or
--cert-file/--key-file), --device-code, or --interactive. Exactly one flow
may be selected. Without flow flags the configured material applies,
resolved in the fixed order client secret, certificate, device code,
interactive. --access-token skips the flows entirely and installs a static
bearer token for the tenant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant := viper.GetString("tenant")
			if len(args) > 0 {
				tenant = args[0]
			}

			if tenant == "" {
				return ErrTenantRequired
			}

			return runConnectCommand(cmd, tenant, flags)
		},
	}

	cmd.Flags().StringVar(&flags.clientID, "client-id", "", "application (client) id")
	cmd.Flags().StringVar(&flags.clientSecret, "client-secret", "", "client secret (prompts when given empty)")
	cmd.Flags().StringVar(&flags.certificate, "certificate", "", "path to a PFX certificate bundle")
	cmd.Flags().StringVar(&flags.certPassword, "certificate-password", "", "password protecting the PFX bundle")
	cmd.Flags().StringVar(&flags.certFile, "cert-file", "", "path to a PEM certificate")
	cmd.Flags().StringVar(&flags.keyFile, "key-file", "", "path to a PEM private key")
	cmd.Flags().BoolVar(&flags.deviceCode, "device-code", false, "sign in with a device code on a second device")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "sign in through the system browser")
	cmd.Flags().StringVar(&flags.accessToken, "access-token", "", "pre-acquired bearer token, used as-is")

	return cmd
}

// runConnectCommand validates the flow selection before touching the
// registry or the network so flag misuse fails fast.
func runConnectCommand(cmd *cobra.Command, tenant string, flags *connectFlags) error {
	material, err := materialFromFlags(cmd, flags)
	if err != nil {
		return err
	}

	tenant, err = resolveTenantID(tenant)
	if err != nil {
		return err
	}

	if flags.accessToken != "" {
		return connectWithToken(tenant, flags.accessToken)
	}

	client, err := CreateClient()
	if err != nil {
		return err
	}

	err = client.Connect(cmd.Context(), tenant, material)
	if err != nil {
		return fmt.Errorf("failed to connect to tenant %s: %w", tenant, err)
	}

	flow := "configured"
	if material != nil {
		flow = material.Flow()
	}

	_, _ = fmt.Fprintf(os.Stdout, "Connected to tenant %s (%s flow)\n", client.CurrentTenant(), flow)

	return nil
}

// materialFromFlags maps the flow flags onto credential material. Nil means
// no flow flag was given; the session then falls back to the configured
// material or the interactive flow. A static token counts as a flow for
// conflict detection but carries no material.
func materialFromFlags(cmd *cobra.Command, flags *connectFlags) (graph.CredentialMaterial, error) {
	secretFlow := cmd.Flags().Changed("client-secret")
	certFlow := flags.certificate != "" || flags.certFile != "" || flags.keyFile != ""
	tokenFlow := flags.accessToken != ""

	selected := 0
	for _, flow := range []bool{secretFlow, certFlow, flags.deviceCode, flags.interactive, tokenFlow} {
		if flow {
			selected++
		}
	}

	if selected > 1 {
		return nil, ErrMultipleCredentialFlows
	}

	clientID := flags.clientID
	if clientID == "" {
		clientID = viper.GetString("client_id")
	}

	switch {
	case secretFlow:
		return secretMaterial(clientID, flags.clientSecret)
	case certFlow:
		return certificateMaterial(clientID, flags)
	case flags.deviceCode:
		if clientID == "" {
			return nil, ErrFlowRequiresClientID
		}

		return graph.DeviceCode(clientID, printDeviceCodePrompt), nil
	case flags.interactive:
		if clientID == "" {
			return nil, ErrFlowRequiresClientID
		}

		return graph.Interactive(clientID, printAuthorizationURL), nil
	default:
		return nil, nil
	}
}

func secretMaterial(clientID, secret string) (graph.CredentialMaterial, error) {
	if clientID == "" {
		return nil, ErrSecretRequiresClientID
	}

	if secret == "" {
		var err error

		secret, err = promptSecret("Client secret")
		if err != nil {
			return nil, err
		}
	}

	return graph.ClientSecret(clientID, secret), nil
}

func certificateMaterial(clientID string, flags *connectFlags) (graph.CredentialMaterial, error) {
	if clientID == "" {
		return nil, ErrCertRequiresClientID
	}

	if flags.certificate != "" {
		return graph.Certificate(clientID, flags.certificate, flags.certPassword), nil
	}

	if flags.certFile == "" || flags.keyFile == "" {
		return nil, ErrPEMPairRequired
	}

	return graph.CertificatePEM(clientID, flags.certFile, flags.keyFile), nil
}

// connectWithToken installs a static bearer token for the tenant. The
// session is established at construction, without any credential flow.
func connectWithToken(tenant, token string) error {
	config, err := clientConfigFromViper()
	if err != nil {
		return err
	}

	config.TenantID = tenant
	config.AccessToken = token

	client, err := graphclient.New(config)
	if err != nil {
		return fmt.Errorf("failed to connect with static token: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Connected to tenant %s (static token)\n", client.CurrentTenant())

	return nil
}

// printDeviceCodePrompt shows the user what to do on the second device.
func printDeviceCodePrompt(prompt graph.DeviceCodePrompt) {
	if prompt.Message != "" {
		_, _ = fmt.Fprintln(os.Stdout, prompt.Message)

		return
	}

	_, _ = fmt.Fprintf(os.Stdout, "To sign in, open %s and enter the code %s\n", prompt.VerificationURI, prompt.UserCode)
}

// printAuthorizationURL is the browser seam for the interactive flow; the
// CLI prints the URL instead of spawning a browser.
func printAuthorizationURL(url string) error {
	_, _ = fmt.Fprintf(os.Stdout, "Open the following URL in your browser to sign in:\n\n  %s\n\n", url)

	return nil
}
