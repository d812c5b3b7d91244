package marketdata

import (
	"encoding/json"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-marketsim/pkg/errors"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US equity and index daily bars, split and dividend adjusted plus unadjusted closes",
		RequiresAuth: true,
	},
}

// GetSupportedProviders returns the sorted names of all supported providers.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema for a provider's download configuration.
func GetDownloadConfigSchema(providerName string) (string, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		r := new(jsonschema.Reflector)
		r.DoNotReference = true

		//nolint:exhaustruct // Empty struct is intentional for schema generation
		out, err := json.Marshal(r.Reflect(PolygonDownloadConfig{}))
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal schema", err)
		}

		return string(out), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}
}

// GetDownloadKeychainFields lists the json names of fields tagged keychain:"true".
func GetDownloadKeychainFields(providerName string) ([]string, error) {
	switch ProviderType(providerName) {
	case ProviderPolygon:
		//nolint:exhaustruct // Empty struct is intentional for field introspection
		return keychainFields(reflect.TypeOf(PolygonDownloadConfig{})), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}
}

func keychainFields(t reflect.Type) []string {
	var fields []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("keychain") != "true" {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
			name = tag
		}

		fields = append(fields, name)
	}

	return fields
}
