package appconfig

import (
	appconfigDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/appconfig"
)

// Repository reads and writes process-wide settings. Set is an upsert on
// name and never fails for a missing key.
type Repository interface {
	Get(name string) (string, error)
	Set(name, value string) error
	All() ([]*appconfigDatamodel.AppConfig, error)
}
