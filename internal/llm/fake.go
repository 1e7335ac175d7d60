package llm

import "context"

// FakeClient returns a deterministic canned document for offline runs and tests.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, prompt string) (string, error) {
	return `# Project

## Project Overview

Placeholder document produced without contacting a model provider.

## Installation

See the repository manifests for build instructions.

## Usage

Run the project's main entry point.
`, nil
}
