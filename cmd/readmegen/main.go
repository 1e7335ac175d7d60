package main

import (
    "context"
    "flag"
    "fmt"
    "os"

    "readmegen/internal/assemble"
    "readmegen/internal/cache"
    "readmegen/internal/config"
    "readmegen/internal/fetch"
    "readmegen/internal/llm"
    "readmegen/internal/logger"
    "readmegen/internal/pipeline"
    "readmegen/internal/render"
    "readmegen/internal/safeio"
    "readmegen/internal/sample"
    "readmegen/internal/scan"
)

func main() {
    def := config.Default()
    cfgPath := flag.String("config", "", "path to a TOML config file")
    out := flag.String("out", def.Out, "output file path")
    workDir := flag.String("work-dir", def.WorkDir, "directory for remote clones")
    useLLM := flag.Bool("use-llm", def.UseLLM, "generate with a model; false renders from extracted facts only")
    provider := flag.String("provider", def.Provider, "llm provider: gemini, openai, deepseek, openrouter, fake")
    model := flag.String("model", def.Model, "model id")
    baseURL := flag.String("base-url", def.BaseURL, "override the provider API base URL")
    maxSamples := flag.Int("max-samples", def.MaxFileSamples, "maximum number of sampled files")
    maxPayload := flag.Int("max-payload-chars", def.MaxPayloadChars, "context payload budget in characters")
    perFile := flag.Int("per-file-chars", def.PerFileCharCap, "per-file excerpt cap in characters")
    logLevel := flag.String("log-level", def.LogLevel, "log level: debug, info, warn, error")
    logDir := flag.String("log-dir", def.LogDir, "directory for rotating log files")
    timeout := flag.Duration("timeout", def.Timeout, "overall run timeout")
    flag.Parse()

    if flag.NArg() != 1 {
        fmt.Fprintln(os.Stderr, "usage: readmegen [flags] <repository path or git URL>")
        os.Exit(2)
    }
    repo := flag.Arg(0)

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
    // Explicitly set flags win over the file and environment layers.
    flag.Visit(func(f *flag.Flag) {
        switch f.Name {
        case "out": cfg.Out = *out
        case "work-dir": cfg.WorkDir = *workDir
        case "use-llm": cfg.UseLLM = *useLLM
        case "provider": cfg.Provider = *provider
        case "model": cfg.Model = *model
        case "base-url": cfg.BaseURL = *baseURL
        case "max-samples": cfg.MaxFileSamples = *maxSamples
        case "max-payload-chars": cfg.MaxPayloadChars = *maxPayload
        case "per-file-chars": cfg.PerFileCharCap = *perFile
        case "log-level": cfg.LogLevel = *logLevel
        case "log-dir": cfg.LogDir = *logDir
        case "timeout": cfg.Timeout = *timeout
        }
    })

    log := logger.New(cfg.LogLevel, cfg.LogDir)
    ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
    defer cancel()

    if err := run(ctx, repo, cfg, log); err != nil {
        log.Fatal("%v", err)
    }
}

func run(ctx context.Context, repo string, cfg config.Config, log logger.Logger) error {
    root, err := fetch.Resolve(ctx, repo, cfg.WorkDir, log); if err != nil { return err }

    res, err := scan.Scan(root, scan.Options{IgnoreGlobs: cfg.IgnorePatterns, UseGitignore: cfg.UseGitignore})
    if err != nil { return err }
    log.Info("scanned %d files in %s", len(res.Files), root)

    fs, err := safeio.NewSafeFS(root); if err != nil { return err }
    files, err := cache.NewContents(fs, 0); if err != nil { return err }

    meta := scan.ExtractMetadata(res, files)
    smp := sample.Run(res, files, sample.Options{MaxSamples: cfg.MaxFileSamples, PerFileCap: cfg.PerFileCharCap}, log)
    log.Info("sampled %d files, skipped %d", len(smp.Samples), len(smp.Skipped))

    payload := assemble.Build(res, meta, smp, assemble.Options{MaxPayloadChars: cfg.MaxPayloadChars})

    var doc []byte
    if cfg.UseLLM {
        base, err := llm.NewFromProvider(ctx, cfg.Provider, cfg.Model, cfg.BaseURL); if err != nil { return err }
        cli := llm.Wrap(base,
            llm.WithLogging(log),
            llm.Retry(cfg.MaxAttempts, cfg.RetryBaseDelay),
            llm.RateLimitFromEnv("LLM"),
        )
        defer cli.Close()

        p := pipeline.Readme{LLM: cli}
        text, err := p.Run(ctx, payload); if err != nil { return err }
        doc = []byte(text)
        if len(doc) > 0 && doc[len(doc)-1] != '\n' { doc = append(doc, '\n') }
    } else {
        doc = render.Fallback(res, meta, smp)
    }

    if err := render.Write(cfg.Out, doc); err != nil { return err }
    log.Info("wrote %s (%d bytes)", cfg.Out, len(doc))
    return nil
}
