package config

const (
	defaultScanDir     = "~/.local/share/easel/scan"
	defaultOutDir      = "~/.local/share/easel/outputs"
	defaultInputStore  = "~/.local/share/easel/comfy/input"
	defaultOutputStore = "~/.local/share/easel/comfy/output"
	defaultLogDir      = "~/.local/share/easel/logs"

	defaultBaseURL            = "http://127.0.0.1:8188"
	defaultPollTimeoutSeconds = 180
	defaultPollIntervalMS     = 800
	defaultJobPauseMS         = 200

	defaultChainSteps = 5

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultProfileName = "flux"

	hidreamNegativeSentinel = "low quality, blurry, distorted"
)

func defaultCountries() []string {
	return []string{"korea", "china", "india", "kenya", "nigeria", "united_states"}
}

func defaultDemonyms() map[string]string {
	return map[string]string{
		"korea":         "Korean",
		"china":         "Chinese",
		"india":         "Indian",
		"kenya":         "Kenyan",
		"nigeria":       "Nigerian",
		"united_states": "American",
	}
}

func defaultNoSubcategoryCategories() []string {
	return []string{"people", "landscape"}
}

func defaultProfiles() map[string]Profile {
	return map[string]Profile{
		"flux": {
			Template:       "~/.config/easel/workflows/flux_kontext_dev_basic.json",
			ModelTag:       "flux",
			ImageNodeClass: "LoadImageOutput",
			StagingStore:   "output",
		},
		"hidream": {
			Template:           "~/.config/easel/workflows/hidream_e1_1.json",
			ModelTag:           "hidream",
			ImageNodeClass:     "LoadImage",
			StagingStore:       "input",
			NegativeSentinel:   hidreamNegativeSentinel,
			RewireConditioning: true,
		},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		DefaultProfile: defaultProfileName,
		Paths: Paths{
			ScanDir:     defaultScanDir,
			OutDir:      defaultOutDir,
			InputStore:  defaultInputStore,
			OutputStore: defaultOutputStore,
			LogDir:      defaultLogDir,
		},
		Service: Service{
			BaseURL:            defaultBaseURL,
			PollTimeoutSeconds: defaultPollTimeoutSeconds,
			PollIntervalMS:     defaultPollIntervalMS,
			JobPauseMS:         defaultJobPauseMS,
		},
		Prompt: Prompt{
			AllowCountries:          defaultCountries(),
			NoSubcategoryCategories: defaultNoSubcategoryCategories(),
		},
		Chain: Chain{
			Steps: defaultChainSteps,
		},
		Sweep: Sweep{
			Countries: defaultCountries(),
			Demonyms:  defaultDemonyms(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Profiles: defaultProfiles(),
	}
}
