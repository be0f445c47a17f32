// Package server is the configuration of phisd and phisadm.
package server

import "time"

// Config is the sealed (read only) configuration. Get it with Unmarshal or LoadServerConfig.
type Config struct {
	port            string
	apiRoot         string
	baseURI         string
	defaultLanguage string
	pagination      *PaginationConfig
	sparql          *SPARQLConfig
	mongodb         *MongoDBConfig
	postgres        *PostgresConfig
	storage         *StorageConfig
	auth            *AuthConfig
}

// port to listen. default = "8080"
func (c *Config) Port() string { return c.port }

// path prefix of REST API. default = "/rest"
func (c *Config) APIRoot() string { return c.apiRoot }

// base of generated URIs and named graphs
func (c *Config) BaseURI() string { return c.baseURI }

// language of labels when requests do not specify. default = "en"
func (c *Config) DefaultLanguage() string { return c.defaultLanguage }

func (c *Config) Pagination() *PaginationConfig { return c.pagination }
func (c *Config) SPARQL() *SPARQLConfig         { return c.sparql }
func (c *Config) MongoDB() *MongoDBConfig       { return c.mongodb }
func (c *Config) Postgres() *PostgresConfig     { return c.postgres }
func (c *Config) Storage() *StorageConfig       { return c.storage }
func (c *Config) Auth() *AuthConfig             { return c.auth }

type PaginationConfig struct {
	defaultPageSize int
	maxPageSize     int
}

// default = 20
func (p *PaginationConfig) DefaultPageSize() int { return p.defaultPageSize }

// default = 5000
func (p *PaginationConfig) MaxPageSize() int { return p.maxPageSize }

// Configuration of RDF4J repository.
type SPARQLConfig struct {
	server     string
	repository string
	timeout    time.Duration
	shacl      bool
}

// root URL of RDF4J server, like "http://localhost:8667/rdf4j-server"
func (s *SPARQLConfig) Server() string { return s.server }

func (s *SPARQLConfig) Repository() string { return s.repository }

// timeout of each query. default = 20s
func (s *SPARQLConfig) Timeout() time.Duration { return s.timeout }

// if true, SHACL shapes of models are loaded on startup.
func (s *SPARQLConfig) SHACL() bool { return s.shacl }

type MongoDBConfig struct {
	uri      string
	database string
}

func (m *MongoDBConfig) URI() string { return m.uri }

// default = "opensilex"
func (m *MongoDBConfig) Database() string { return m.database }

type PostgresConfig struct {
	uri string
}

func (p *PostgresConfig) URI() string { return p.uri }

// Configuration of file contents storage.
type StorageConfig struct {
	root string
}

// directory where uploaded files are stored
func (s *StorageConfig) Root() string { return s.root }

type AuthConfig struct {
	keyFile string
	ttl     time.Duration
	issuer  string
}

// file containing HS256 key of access tokens
func (a *AuthConfig) KeyFile() string { return a.keyFile }

// lifetime of access tokens. default = 1h
func (a *AuthConfig) TTL() time.Duration { return a.ttl }

// default = "phis"
func (a *AuthConfig) Issuer() string { return a.issuer }
