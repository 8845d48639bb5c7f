package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/gradlemirror/gradlemirror/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage credential profiles",
	Long: `Manage credential profiles for the s3 backend.

Profiles hold the endpoint, bucket and keys for a mirror bucket and let
you switch targets with --profile or GRADLEMIRROR_PROFILE.

Profiles are stored in ~/.gradlemirror/profiles.yaml`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles in the profiles file.

The default profile is marked with an asterisk (*).`,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile interactively.

You will be prompted for:
  - Endpoint URL (empty for AWS S3)
  - Region
  - Bucket
  - Access key and secret key
  - Path-style addressing
  - Whether to set as default

A non-empty endpoint is probed before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Show details for a profile.

If no name is provided, shows the default profile.
Secrets are hidden by default; use --show-secrets to reveal them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)

	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values")

	rootCmd.AddCommand(configureCmd)
}

// profilesPath resolves the profiles file location from the environment,
// falling back to ~/.gradlemirror/profiles.yaml.
func profilesPath() string {
	if path := config.ProfilesPathFromEnv(); path != "" {
		return path
	}
	return config.DefaultProfilesPath()
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	profiles, err := config.LoadProfiles(profilesPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("No profiles configured.")
			fmt.Println("Run 'gradlemirror configure add <name>' to create one.")
			return nil
		}
		return fmt.Errorf("load profiles: %w", err)
	}

	if len(profiles.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Run 'gradlemirror configure add <name>' to create one.")
		return nil
	}

	defaultName := ""
	if p, defErr := profiles.GetDefaultProfile(); defErr == nil {
		defaultName = p.Name
	}

	printProfileList(profiles.Profiles, defaultName)
	return nil
}

func runConfigureAdd(_ *cobra.Command, args []string) error {
	name := args[0]
	path := profilesPath()

	profiles, err := config.LoadProfiles(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			profiles = &config.ProfileFile{}
		} else {
			return fmt.Errorf("load profiles: %w", err)
		}
	}

	existing, _ := profiles.GetProfile(name)
	if existing != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	endpointPrompt := promptui.Prompt{
		Label: "Endpoint URL (empty for AWS S3)",
		Validate: func(input string) error {
			if input == "" {
				return nil
			}
			parsedURL, parseErr := url.Parse(input)
			if parseErr != nil {
				return fmt.Errorf("invalid URL: %w", parseErr)
			}
			if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
				return errors.New("URL must start with http:// or https://")
			}
			return nil
		},
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	regionPrompt := promptui.Prompt{
		Label:   "Region",
		Default: "us-east-1",
	}
	region, err := regionPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	bucketPrompt := promptui.Prompt{
		Label: "Bucket",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("bucket is required")
			}
			return nil
		},
	}
	bucket, err := bucketPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	accessKeyPrompt := promptui.Prompt{
		Label: "Access Key",
	}
	accessKeyVal, err := accessKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	secretKeyPrompt := promptui.Prompt{
		Label: "Secret Key",
		Mask:  '*',
	}
	secretKeyVal, err := secretKeyPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	usePathStyle := false
	if endpointURL != "" {
		pathStylePrompt := promptui.Prompt{
			Label:     "Use path-style addressing (required by MinIO)",
			IsConfirm: true,
		}
		if _, promptErr := pathStylePrompt.Run(); promptErr == nil {
			usePathStyle = true
		}
	}

	setAsDefault := false
	if len(profiles.Profiles) == 0 {
		setAsDefault = true // First profile is always default
	} else {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	if endpointURL != "" {
		fmt.Print("Testing endpoint... ")
		if connErr := testEndpoint(endpointURL); connErr != nil {
			fmt.Println("FAILED")
			fmt.Printf("Warning: Could not reach endpoint: %v\n", connErr)

			continuePrompt := promptui.Prompt{
				Label:     "Save profile anyway",
				IsConfirm: true,
			}
			if _, promptErr := continuePrompt.Run(); promptErr != nil {
				fmt.Println("Cancelled.")
				return nil //nolint:nilerr // User cancelled, not an error
			}
		} else {
			fmt.Println("OK")
		}
	}

	newProfile := config.Profile{
		Name:         name,
		Endpoint:     strings.TrimSuffix(endpointURL, "/"),
		Region:       region,
		Bucket:       bucket,
		AccessKey:    accessKeyVal,
		SecretKey:    secretKeyVal,
		UsePathStyle: usePathStyle,
		Default:      setAsDefault,
	}

	if setAsDefault {
		for i := range profiles.Profiles {
			profiles.Profiles[i].Default = false
		}
	}

	if existing != nil {
		if err := profiles.UpdateProfile(newProfile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
	} else {
		if err := profiles.AddProfile(newProfile); err != nil {
			return fmt.Errorf("add profile: %w", err)
		}
	}

	if err := profiles.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	if existing != nil {
		fmt.Printf("Profile '%s' updated.\n", name)
	} else {
		fmt.Printf("Profile '%s' added.\n", name)
	}

	if setAsDefault {
		fmt.Printf("Set as default profile.\n")
	}

	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]
	path := profilesPath()

	profiles, err := config.LoadProfiles(path)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	if _, err = profiles.GetProfile(name); err != nil {
		return err
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		fmt.Println("Cancelled.")
		return nil //nolint:nilerr // User cancelled, not an error
	}

	if err := profiles.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}

	if err := profiles.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	name := args[0]
	path := profilesPath()

	profiles, err := config.LoadProfiles(path)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	if err := profiles.SetDefault(name); err != nil {
		return err
	}

	if err := profiles.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	fmt.Printf("Default profile set to '%s'.\n", name)
	return nil
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	profiles, err := config.LoadProfiles(profilesPath())
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := profiles.GetProfile(name)
	if err != nil {
		return err
	}

	isDefault := p.Default
	if !isDefault && name == "" {
		isDefault = true // Empty name resolved to the default profile
	}

	fmt.Printf("Name:        %s", p.Name)
	if isDefault {
		fmt.Printf(" (default)")
	}
	fmt.Println()
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = "(AWS S3)"
	}
	fmt.Printf("Endpoint:    %s\n", endpoint)
	fmt.Printf("Region:      %s\n", p.Region)
	fmt.Printf("Bucket:      %s\n", p.Bucket)
	fmt.Printf("Access Key:  %s\n", maskSecret(p.AccessKey, showSecrets))
	fmt.Printf("Secret Key:  %s\n", maskSecret(p.SecretKey, showSecrets))
	fmt.Printf("Path Style:  %t\n", p.UsePathStyle)
	return nil
}

func printProfileList(profiles []config.Profile, defaultName string) {
	maxNameLen := 4   // "NAME"
	maxBucketLen := 6 // "BUCKET"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Bucket) > maxBucketLen {
			maxBucketLen = len(profiles[i].Bucket)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxBucketLen > 40 {
		maxBucketLen = 40
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxBucketLen, "BUCKET", "ACCESS KEY")
	fmt.Printf("  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxBucketLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		name := p.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		bucket := p.Bucket
		if len(bucket) > maxBucketLen {
			bucket = bucket[:maxBucketLen-3] + "..."
		}

		fmt.Printf("%s %-*s  %-*s  %s\n", marker, maxNameLen, name, maxBucketLen, bucket, maskSecret(p.AccessKey, showSecrets))
	}
}

// testEndpoint checks whether the endpoint is reachable. Any HTTP response
// counts; an S3-compatible endpoint answers unauthenticated requests with
// 403, which still proves the server is up.
func testEndpoint(endpointURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}

// maskSecret masks a secret, showing only the first and last 4 characters.
func maskSecret(secret string, show bool) string {
	if show {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
