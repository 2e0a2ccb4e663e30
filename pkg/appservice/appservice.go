// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package appservice declares app service plan and web app resources.
package appservice

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"go.uber.org/multierr"

	"github.com/raymens/farmer/pkg/azure"
	"github.com/raymens/farmer/pkg/infra"
)

var (
	ServerFarms = azure.NewResourceType("Microsoft.Web/serverfarms", "2020-06-01")
	Sites       = azure.NewResourceType("Microsoft.Web/sites", "2020-06-01")
)

// WebAppConfig describes a web app, the plan it runs on and its app
// settings. Settings may be literals, secure parameter references or
// deploy-time expressions; secure parameter settings surface through the
// Parameters capability so template assembly declares them.
type WebAppConfig struct {
	Name        azure.ResourceName
	ServicePlan infra.ResourceRef[WebAppConfig]
	PlanSku     string
	Settings    map[string]infra.Setting
	// WarmUpPath, when set, is requested once after deployment succeeds.
	WarmUpPath string
}

type WebAppBuilder struct {
	Config WebAppConfig
}

// NewWebAppBuilder makes a web app with a service plan derived from the app
// name.
func NewWebAppBuilder(name string) *WebAppBuilder {
	return &WebAppBuilder{Config: WebAppConfig{
		Name: azure.NewResourceName(name),
		ServicePlan: infra.AutoCreateDerived[WebAppConfig](func(c WebAppConfig) azure.ResourceName {
			return c.Name.Map(func(s string) string { return s + "-plan" })
		}),
	}}
}

func (b *WebAppBuilder) DependencyName() azure.ResourceName { return b.Config.Name }

func (b *WebAppBuilder) validate() error {
	var err error

	if b.Config.Name.IsEmpty() {
		err = multierr.Append(err, fmt.Errorf("web app requires a name"))
	}
	for name, setting := range b.Config.Settings {
		if setting == nil {
			err = multierr.Append(err, fmt.Errorf("setting %q has no value", name))
		}
	}

	return err
}

// SecureParameters reports the parameters referenced by parameter-valued
// settings, in setting-name order. Duplicates are fine; assembly dedupes.
func (b *WebAppBuilder) SecureParameters() []infra.SecureParameter {
	var parameters []infra.SecureParameter
	for _, name := range sortedSettingNames(b.Config.Settings) {
		if parameter, ok := b.Config.Settings[name].(infra.ParameterValue); ok {
			parameters = append(parameters, parameter.Parameter)
		}
	}

	return parameters
}

func (b *WebAppBuilder) BuildResources(location azure.Location) ([]infra.ArmResource, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	planName := b.Config.ServicePlan.CreateResourceName(b.Config)

	var resources []infra.ArmResource
	if b.Config.ServicePlan.Deployable() {
		sku := b.Config.PlanSku
		if sku == "" {
			sku = "B1"
		}

		plan := ServerFarms.Create(planName, location, nil, nil)
		plan.Sku = &azure.Sku{Name: sku}
		resources = append(resources, &siteResource{name: planName, record: plan})
	}

	var dependsOn []string
	if b.Config.ServicePlan.Dependable() {
		dependsOn = append(dependsOn, azure.ResourceID(ServerFarms, planName, "", "").Eval())
	}
	// settings that read another resource, e.g. a listKeys account key, put
	// that resource ahead of the site
	dependsOn = append(dependsOn, infra.SettingDependencies(b.Config.Settings)...)

	appSettings := make([]appSetting, 0, len(b.Config.Settings))
	for _, name := range sortedSettingNames(b.Config.Settings) {
		appSettings = append(appSettings, appSetting{
			Name:  name,
			Value: b.Config.Settings[name].ArmValue(),
		})
	}

	site := Sites.Create(b.Config.Name, location, dependsOn, nil)
	site.Properties = siteProperties{
		ServerFarmID: azure.ResourceID(ServerFarms, planName, "", "").Eval(),
		SiteConfig:   siteConfig{AppSettings: appSettings},
	}

	resources = append(resources, &siteResource{name: b.Config.Name, record: site})
	return resources, nil
}

// Run warms up the site after deployment. Failures are reported as warnings
// by the task runner; the deployment itself already succeeded.
func (b *WebAppBuilder) Run(ctx context.Context, resourceGroupName string) (string, error) {
	if b.Config.WarmUpPath == "" {
		return "", nil
	}

	url := fmt.Sprintf("https://%s.azurewebsites.net%s", b.Config.Name.Value(), b.Config.WarmUpPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("warming up %s: %w", url, err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("warming up %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("warming up %s: status %s", url, res.Status)
	}

	return fmt.Sprintf("warmed up %s", url), nil
}

func sortedSettingNames(settings map[string]infra.Setting) []string {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

type siteProperties struct {
	ServerFarmID string     `json:"serverFarmId"`
	SiteConfig   siteConfig `json:"siteConfig"`
}

type siteConfig struct {
	AppSettings []appSetting `json:"appSettings"`
}

type appSetting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type siteResource struct {
	name   azure.ResourceName
	record azure.ResourceRecord
}

func (r *siteResource) ResourceName() azure.ResourceName { return r.name }
func (r *siteResource) JSONModel() any                   { return r.record }
