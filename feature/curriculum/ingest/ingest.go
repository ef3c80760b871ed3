// Package ingest turns curriculum content documents into bundles.
//
// Bundles are JSON documents, read either from the local filesystem or from
// an object-storage bucket. Ingestion also normalizes escape artifacts left
// over from legacy content exports, so the loader core always receives
// clean, unescaped text.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"curriculum-loader/core/storage"
	"curriculum-loader/feature/curriculum/models"

	"github.com/minio/minio-go/v7"
)

// DecodeBundle parses one bundle document and normalizes its text fields.
func DecodeBundle(data []byte) (*models.Bundle, error) {
	var bundle models.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	normalizeBundle(&bundle)
	return &bundle, nil
}

// ReadBundleFile reads and decodes a single bundle document from disk.
func ReadBundleFile(path string) (*models.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle file %s: %w", path, err)
	}
	bundle, err := DecodeBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bundle, nil
}

// ReadBundleDir reads every *.json document in a directory, in lexical
// order so repeated runs process bundles deterministically.
func ReadBundleDir(dir string) ([]*models.Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	bundles := make([]*models.Bundle, 0, len(names))
	for _, name := range names {
		bundle, err := ReadBundleFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

// ReadBundlesFromStorage lists *.json objects under the given prefix and
// decodes each into a bundle, in lexical object-name order.
func ReadBundlesFromStorage(ctx context.Context, client storage.Client, bucket, prefix string) ([]*models.Bundle, error) {
	var names []string
	for info := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list bundles under %s: %w", prefix, info.Err)
		}
		if strings.HasSuffix(info.Key, ".json") {
			names = append(names, info.Key)
		}
	}
	sort.Strings(names)

	bundles := make([]*models.Bundle, 0, len(names))
	for _, name := range names {
		obj, err := client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch bundle %s: %w", name, err)
		}
		data, err := io.ReadAll(obj)
		obj.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle %s: %w", name, err)
		}
		bundle, err := DecodeBundle(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

// ReadCategoriesFile reads the category seed document: a JSON array of
// {name, slug} objects.
func ReadCategoriesFile(path string) ([]models.CategoryInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file %s: %w", path, err)
	}
	var cats []models.CategoryInput
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("failed to decode categories file %s: %w", path, err)
	}
	return cats, nil
}
