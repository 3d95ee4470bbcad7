package dbconnect

type Database interface {
	DbConnector
	Ping() error
	Close() error
}
