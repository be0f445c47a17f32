package server

import (
	"fmt"
	"strings"
	"time"
)

type ConfigMarshall struct {
	Server          *ServerConfigMarshall     `yaml:"server"`
	BaseURI         string                    `yaml:"base_uri"`
	DefaultLanguage string                    `yaml:"default_language"`
	Pagination      *PaginationConfigMarshall `yaml:"pagination"`
	SPARQL          *SPARQLConfigMarshall     `yaml:"sparql"`
	MongoDB         *MongoDBConfigMarshall    `yaml:"mongodb"`
	Postgres        *PostgresConfigMarshall   `yaml:"postgres"`
	Storage         *StorageConfigMarshall    `yaml:"storage"`
	Auth            *AuthConfigMarshall       `yaml:"auth"`
}

type ServerConfigMarshall struct {
	Port    string `yaml:"port"`
	APIRoot string `yaml:"api_root"`
}

type PaginationConfigMarshall struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

type SPARQLConfigMarshall struct {
	Server     string `yaml:"server"`
	Repository string `yaml:"repository"`
	Timeout    string `yaml:"timeout"`
	SHACL      bool   `yaml:"shacl"`
}

type MongoDBConfigMarshall struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type PostgresConfigMarshall struct {
	URI string `yaml:"uri"`
}

type StorageConfigMarshall struct {
	Root string `yaml:"root"`
}

type AuthConfigMarshall struct {
	KeyFile string `yaml:"key_file"`
	TTL     string `yaml:"ttl"`
	Issuer  string `yaml:"issuer"`
}

// verify configuration values and create read only version of them.
//
// IT WILL PANIC if any misconfiguration is found.
func (cm *ConfigMarshall) TrySeal() *Config {
	return cm.trySeal("(root)")
}

func (cm *ConfigMarshall) trySeal(path string) *Config {
	srv := cm.Server
	if srv == nil {
		srv = &ServerConfigMarshall{}
	}
	pg := cm.Pagination
	if pg == nil {
		pg = &PaginationConfigMarshall{}
	}
	return &Config{
		port:            orDefault(srv.Port, "8080"),
		apiRoot:         "/" + strings.Trim(orDefault(srv.APIRoot, "/rest"), "/"),
		baseURI:         strings.TrimRight(required(cm.BaseURI, path+".base_uri"), "/"),
		defaultLanguage: orDefault(cm.DefaultLanguage, "en"),
		pagination:      pg.trySeal(path + ".pagination"),
		sparql:          nonnil(cm.SPARQL, path+".sparql").trySeal(path + ".sparql"),
		mongodb:         nonnil(cm.MongoDB, path+".mongodb").trySeal(path + ".mongodb"),
		postgres:        nonnil(cm.Postgres, path+".postgres").trySeal(path + ".postgres"),
		storage:         nonnil(cm.Storage, path+".storage").trySeal(path + ".storage"),
		auth:            nonnil(cm.Auth, path+".auth").trySeal(path + ".auth"),
	}
}

func (pm *PaginationConfigMarshall) trySeal(path string) *PaginationConfig {
	def := orDefault(pm.DefaultPageSize, 20)
	max := orDefault(pm.MaxPageSize, 5000)
	if def < 0 || max < 0 {
		panic(path + " should not be negative")
	}
	if max < def {
		panic(fmt.Sprintf("%s.default_page_size (%d) exceeds max_page_size (%d)", path, def, max))
	}
	return &PaginationConfig{defaultPageSize: def, maxPageSize: max}
}

func (sm *SPARQLConfigMarshall) trySeal(path string) *SPARQLConfig {
	return &SPARQLConfig{
		server:     strings.TrimRight(required(sm.Server, path+".server"), "/"),
		repository: required(sm.Repository, path+".repository"),
		timeout:    duration(orDefault(sm.Timeout, "20s"), path+".timeout"),
		shacl:      sm.SHACL,
	}
}

func (mm *MongoDBConfigMarshall) trySeal(path string) *MongoDBConfig {
	return &MongoDBConfig{
		uri:      required(mm.URI, path+".uri"),
		database: orDefault(mm.Database, "opensilex"),
	}
}

func (pm *PostgresConfigMarshall) trySeal(path string) *PostgresConfig {
	return &PostgresConfig{uri: required(pm.URI, path+".uri")}
}

func (sm *StorageConfigMarshall) trySeal(path string) *StorageConfig {
	return &StorageConfig{root: required(sm.Root, path+".root")}
}

func (am *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	return &AuthConfig{
		keyFile: required(am.KeyFile, path+".key_file"),
		ttl:     duration(orDefault(am.TTL, "1h"), path+".ttl"),
		issuer:  orDefault(am.Issuer, "phis"),
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}

func orDefault[T comparable](v T, def T) T {
	if v == *new(T) {
		return def
	}
	return v
}

func duration(s string, path string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("%s can not be parsed: %s", path, err))
	}
	if d <= 0 {
		panic(path + " should be positive")
	}
	return d
}
