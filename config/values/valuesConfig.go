package values

// Store holds the connection values of one configured shop.
type Store struct {
	URL        string `yaml:"url" validate:"required,hostname_rfc1123|url"`
	APIKey     string `yaml:"api_key" validate:"required"`
	Password   string `yaml:"password" validate:"required"`
	Production bool   `yaml:"production"`
}

type Templates struct {
	Path    string   `yaml:"path" validate:"required"`
	Engines []string `yaml:"engines" validate:"dive,oneof=raw"`
}

type Snapshot struct {
	Enabled  bool           `yaml:"enabled"`
	Postgres PostgresValues `yaml:"postgres"`
}

type PostgresValues struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
}
