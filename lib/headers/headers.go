// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package headers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/tflitec/lib/feature"
	"github.com/bureau-foundation/tflitec/lib/fileutil"
)

// DefaultBaseURL serves raw files of the TensorFlow repository. The tag
// and header path are appended.
const DefaultBaseURL = "https://raw.githubusercontent.com/tensorflow/tensorflow"

// Header paths relative to the repository root.
const (
	CAPI            = "tensorflow/lite/c/c_api.h"
	CAPITypes       = "tensorflow/lite/c/c_api_types.h"
	XNNPACKDelegate = "tensorflow/lite/delegates/xnnpack/xnnpack_delegate.h"
	Common          = "tensorflow/lite/c/common.h"
)

// Required returns the headers needed for features.
func Required(features feature.Set) []string {
	paths := []string{CAPI, CAPITypes}
	if features.XNNPACK {
		paths = append(paths, XNNPACKDelegate, Common)
	}
	return paths
}

// URL returns the download location of header at tag.
func URL(baseURL, tag, header string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + tag + "/" + header
}

// Options configures [Provision].
type Options struct {
	// Root is the destination include directory.
	Root string

	// Headers are the repository-relative paths to provide.
	Headers []string

	// OverrideDir, when set, is a local directory laid out like the
	// repository. Headers are copied from it instead of downloaded.
	OverrideDir string

	// BaseURL and Tag locate downloads. BaseURL defaults to
	// [DefaultBaseURL].
	BaseURL string
	Tag     string

	// Client performs downloads. Nil uses http.DefaultClient.
	Client *http.Client

	Logger *slog.Logger
}

// Source records how a header was obtained.
type Source string

const (
	SourceExisting   Source = "existing"
	SourceCopied     Source = "copied"
	SourceDownloaded Source = "downloaded"
)

// Provided is one header and where it came from.
type Provided struct {
	Path   string `json:"path"`
	Source Source `json:"source"`
}

// Provision makes every header in options.Headers exist under
// options.Root. It stops at the first failure.
func Provision(ctx context.Context, options Options) ([]Provided, error) {
	if options.Root == "" {
		return nil, errors.New("header root is required")
	}
	if options.OverrideDir == "" && options.Tag == "" {
		return nil, errors.New("a tag is required to download headers")
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := options.Client
	if client == nil {
		client = http.DefaultClient
	}

	provided := make([]Provided, 0, len(options.Headers))
	for _, header := range options.Headers {
		destination := filepath.Join(options.Root, filepath.FromSlash(header))
		if fileutil.Exists(destination) {
			provided = append(provided, Provided{Path: destination, Source: SourceExisting})
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
			return provided, fmt.Errorf("creating header directory: %w", err)
		}

		if options.OverrideDir != "" {
			source := filepath.Join(options.OverrideDir, filepath.FromSlash(header))
			logger.Debug("copying header", "from", source, "to", destination)
			if err := fileutil.CopyOrOverwrite(source, destination); err != nil {
				return provided, err
			}
			provided = append(provided, Provided{Path: destination, Source: SourceCopied})
			continue
		}

		url := URL(baseURL, options.Tag, header)
		logger.Info("downloading header", "url", url)
		if err := Download(ctx, client, url, destination); err != nil {
			return provided, err
		}
		provided = append(provided, Provided{Path: destination, Source: SourceDownloaded})
	}
	return provided, nil
}

// Download fetches url into path. Any failure, including a non-200
// response, removes whatever was written to path.
func Download(ctx context.Context, client *http.Client, url, path string) (err error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(path)
		}
	}()

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 256))
		return fmt.Errorf("downloading %s: HTTP %d: %s", url, response.StatusCode, strings.TrimSpace(string(body)))
	}
	if _, err = io.Copy(file, response.Body); err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	return file.Close()
}
