// Package config lê a configuração do serviço das variáveis de ambiente,
// opcionalmente carregadas de um arquivo .env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// AppName nomeia o diretório de dados padrão.
const AppName = "cobranca"

// Backends de armazenamento aceitos em COBRANCA_STORE.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config reúne os parâmetros do serviço.
type Config struct {
	Port         string
	DataDir      string
	Store        string
	Location     *time.Location
	CSVDelimiter rune
	CSVBOM       bool
	FuzzyHeaders bool
	LogLevel     string
}

// Load carrega o .env do diretório atual, se existir, e lê as variáveis.
// Variáveis já definidas no ambiente não são sobrescritas pelo arquivo.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("erro ao carregar %s: %w", envFile, err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv monta a configuração a partir de uma função de consulta, aplicando os padrões.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		Port:     get("COBRANCA_PORT", "8084"),
		DataDir:  get("COBRANCA_DATA_DIR", filepath.Join(xdg.DataHome, AppName)),
		Store:    strings.ToLower(get("COBRANCA_STORE", StoreFile)),
		LogLevel: strings.ToLower(get("COBRANCA_LOG_LEVEL", "info")),
	}

	if cfg.Store != StoreFile && cfg.Store != StoreSQLite {
		return Config{}, fmt.Errorf("COBRANCA_STORE inválido: %q (use %s ou %s)", cfg.Store, StoreFile, StoreSQLite)
	}

	loc, err := time.LoadLocation(get("COBRANCA_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return Config{}, fmt.Errorf("COBRANCA_TIMEZONE inválido: %w", err)
	}
	cfg.Location = loc

	delim := get("COBRANCA_CSV_DELIMITER", ",")
	if delim == `\t` || strings.EqualFold(delim, "tab") {
		delim = "\t"
	}
	if utf8.RuneCountInString(delim) != 1 {
		return Config{}, fmt.Errorf("COBRANCA_CSV_DELIMITER deve ter um único caractere: %q", delim)
	}
	cfg.CSVDelimiter, _ = utf8.DecodeRuneInString(delim)

	if cfg.CSVBOM, err = strconv.ParseBool(get("COBRANCA_CSV_BOM", "true")); err != nil {
		return Config{}, fmt.Errorf("COBRANCA_CSV_BOM inválido: %w", err)
	}
	if cfg.FuzzyHeaders, err = strconv.ParseBool(get("COBRANCA_FUZZY_HEADERS", "false")); err != nil {
		return Config{}, fmt.Errorf("COBRANCA_FUZZY_HEADERS inválido: %w", err)
	}
	return cfg, nil
}

// StorePath devolve o arquivo do banco SQLite ou o diretório dos arquivos JSON.
func (c Config) StorePath() string {
	if c.Store == StoreSQLite {
		return filepath.Join(c.DataDir, AppName+".db")
	}
	return c.DataDir
}

// Today devolve now no fuso configurado; o classificador usa o dia de calendário dele.
func (c Config) Today(now time.Time) time.Time {
	if c.Location == nil {
		return now
	}
	return now.In(c.Location)
}
