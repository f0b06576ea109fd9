// Package catalog loads named opening-hours descriptions from a YAML file.
package catalog
