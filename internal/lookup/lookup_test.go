package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alumninet/backend/pkg/config"
)

func TestBuildQuery(t *testing.T) {
	config.Cfg.SearchSiteDomain = "linkedin.com"
	config.Cfg.SearchInstitutionKeyword = "SLRTCE"

	assert.Equal(t, `site:linkedin.com AND "jane doe" AND "SLRTCE"`, BuildQuery("jane doe"))
}

func TestBuildQuery_CustomDomainAndKeyword(t *testing.T) {
	config.Cfg.SearchSiteDomain = "example.org"
	config.Cfg.SearchInstitutionKeyword = "ACME"
	defer func() {
		config.Cfg.SearchSiteDomain = "linkedin.com"
		config.Cfg.SearchInstitutionKeyword = "SLRTCE"
	}()

	assert.Equal(t, `site:example.org AND "smith" AND "ACME"`, BuildQuery("smith"))
}
