package database

// Config holds configuration for the database connection.
type Config struct {
	// Host is the database host. MySQL only.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port. MySQL only.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user. MySQL only.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password. MySQL only.
	Password string `mapstructure:"password" default:""`
	// Name is the database name. For the sqlite driver this is the file
	// path, or ":memory:" for an in-memory database.
	Name string `mapstructure:"name" default:"tablediff"`
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
