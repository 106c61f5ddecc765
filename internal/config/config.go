// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type StorageBackend string

const (
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendValKey   StorageBackend = "valkey"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP HTTPServer `yaml:"http"`
	GRPC GRPCServer `yaml:"grpc"`

	Storage  Storage  `yaml:"storage"`
	Database Database `yaml:"database"`
	ValKey   ValKey   `yaml:"valkey"`
	Migrate  Migrate  `yaml:"migrate"`
	Sessions Sessions `yaml:"sessions"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

type GRPCServer struct {
	commoncfg.GRPCServer `mapstructure:",squash" yaml:",inline"`

	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

// Storage selects the document store backing poses and sessions.
type Storage struct {
	Backend StorageBackend `yaml:"backend" default:"postgres"`
}

type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	SSLMode  string              `yaml:"sslMode"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix" default:"yoga"`
}

type Sessions struct {
	// ValidatePoseReferences rejects sessions referencing poses that do not exist.
	ValidatePoseReferences bool `yaml:"validatePoseReferences" default:"false"`
}

type Migrate struct {
	// Source is "embedded" for the migrations built into the binary or a
	// directory holding goose SQL migrations.
	Source string `yaml:"source" default:"embedded"`
}
