package marketdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ProviderRegistryTestSuite struct {
	suite.Suite
}

func TestProviderRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderRegistryTestSuite))
}

func (suite *ProviderRegistryTestSuite) TestGetSupportedProviders() {
	suite.Equal([]string{"polygon"}, GetSupportedProviders())
}

func (suite *ProviderRegistryTestSuite) TestGetProviderInfo() {
	info, err := GetProviderInfo("polygon")
	suite.NoError(err)
	suite.Equal("polygon", info.Name)
	suite.Equal("Polygon.io", info.DisplayName)
	suite.True(info.RequiresAuth)

	_, err = GetProviderInfo("binance")
	suite.Error(err)
}

func (suite *ProviderRegistryTestSuite) TestGetDownloadConfigSchema() {
	schema, err := GetDownloadConfigSchema("polygon")
	suite.Require().NoError(err)

	var parsed map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &parsed))

	properties, ok := parsed["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "tickers")
	suite.Contains(properties, "apiKey")

	_, err = GetDownloadConfigSchema("invalid")
	suite.Error(err)
}

func (suite *ProviderRegistryTestSuite) TestGetDownloadKeychainFields() {
	fields, err := GetDownloadKeychainFields("polygon")
	suite.NoError(err)
	suite.Equal([]string{"apiKey"}, fields)

	_, err = GetDownloadKeychainFields("invalid")
	suite.Error(err)
}
