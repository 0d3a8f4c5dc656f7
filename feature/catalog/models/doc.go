// Package models defines the catalog entities exchanged with the remote store.
package models
