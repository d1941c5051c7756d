package config

import (
	"net/url"
	"strings"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

// Validate checks the configuration for consistency after defaults were applied.
func (c *Config) Validate() error {
	v := &configurationValidator{config: c}
	return v.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	checks := []func() error{
		cv.validateSite,
		cv.validateContent,
		cv.validateRemote,
		cv.validateServer,
		cv.validateMail,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateSite() error {
	if cv.config.Site.BaseURL == "" {
		return nil
	}
	return validateHTTPURL("site.base_url", cv.config.Site.BaseURL)
}

func (cv *configurationValidator) validateContent() error {
	for _, ext := range cv.config.Content.Extensions {
		if ext == "" || ext == "." {
			return errors.ValidationError("content.extensions contains an empty extension").Build()
		}
	}
	for _, dir := range cv.config.Content.Directories {
		if strings.TrimSpace(dir) == "" {
			return errors.ValidationError("content.directories contains an empty path").Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateRemote() error {
	rc := cv.config.Remote
	if !rc.Enabled {
		return nil
	}
	if rc.Owner == "" || rc.Repo == "" {
		return errors.ValidationError("remote.owner and remote.repo are required when remote is enabled").Build()
	}
	if err := validateHTTPURL("remote.api_url", rc.APIURL); err != nil {
		return err
	}
	if rc.Retry.Initial > rc.Retry.Max {
		return errors.ValidationError("remote.retry.initial must not exceed remote.retry.max").
			WithContext("initial", rc.Retry.Initial.String()).
			WithContext("max", rc.Retry.Max.String()).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	if strings.TrimSpace(cv.config.Server.Addr) == "" {
		return errors.ValidationError("server.addr must not be empty").Build()
	}
	return nil
}

func (cv *configurationValidator) validateMail() error {
	if cv.config.Mail.Endpoint == "" {
		return nil
	}
	return validateHTTPURL("mail.endpoint", cv.config.Mail.Endpoint)
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.ValidationError("invalid URL").
			WithContext("field", field).
			WithContext("value", raw).
			Build()
	}
	return nil
}
