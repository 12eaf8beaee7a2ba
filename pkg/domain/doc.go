/*
Package domain defines the core data model of the Cascade state engine:
state type descriptors, per-context records, update payloads, transition
events and their configuration.

Types here carry no scheduling logic; the update and transition passes live in
the internal runtime and mutate these structures under the single-writer
discipline documented on Record.
*/
package domain
