package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jshufro/abibind/bindgen"
	"github.com/jshufro/abibind/emit"
	"github.com/jshufro/abibind/model"
	"go.uber.org/zap"
)

// generate runs the whole pipeline for cfg. Nothing is written unless every
// step succeeded.
func generate(cfg *config, log *zap.Logger, stdout io.Writer) error {
	contract, err := model.LoadFile(cfg.ABI)
	if err != nil {
		return err
	}
	log.Info("loaded abi",
		zap.String("path", cfg.ABI),
		zap.Bool("constructor", contract.Constructor != nil),
		zap.Int("functions", len(contract.Functions)),
		zap.Int("events", len(contract.Events)))

	file, err := bindgen.Generate(contract, bindgen.Options{
		Package:     cfg.Package,
		TypeName:    cfg.TypeName,
		Lib:         cfg.Lib,
		Parallelism: cfg.Parallelism,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("error generating bindings for %s: %w", cfg.TypeName, err)
	}
	if !cfg.stdout() {
		file.Name = filepath.Base(cfg.Out)
	}

	src, err := emit.NewGo("").Emit(file)
	if err != nil {
		return fmt.Errorf("error emitting %s: %w", file.Name, err)
	}

	if cfg.stdout() {
		_, err = stdout.Write(src)
		return err
	}
	if err := os.WriteFile(cfg.Out, src, 0o644); err != nil {
		return err
	}
	log.Info("wrote bindings", zap.String("path", cfg.Out), zap.Int("declarations", len(file.Decls)))
	return nil
}
