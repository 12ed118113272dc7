// Package services implements the driving ports: the use cases that
// orchestrate domain aggregates, stores and processing strategies.
package services
