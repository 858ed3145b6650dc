package appconfig

// AppConfig is a process-wide setting, keyed by Name with upsert
// semantics. No foreign keys.
type AppConfig struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name  string `gorm:"column:name;uniqueIndex;not null"`
	Value string `gorm:"column:value"`
}

func (AppConfig) TableName() string {
	return "app_configs"
}
