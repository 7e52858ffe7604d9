package duck

import (
	"github.com/pkg/errors"
)

// Seed creates the catalog schema and loads demonstration data.
func (dk *Duck) Seed() (err error) {

	statements := []string{
		`CREATE TABLE libraries (
			id VARCHAR PRIMARY KEY,
			agency_code VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			support_hours VARCHAR,
			site_designation VARCHAR,
			updated_at TIMESTAMP DEFAULT now()
		)`,
		`CREATE TABLE host_systems (
			id VARCHAR PRIMARY KEY,
			code VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			lms_client VARCHAR,
			ingest_enabled BOOLEAN DEFAULT true,
			updated_at TIMESTAMP DEFAULT now()
		)`,
		`CREATE TABLE locations (
			id VARCHAR PRIMARY KEY,
			code VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			type VARCHAR,
			agency_code VARCHAR,
			host_system_code VARCHAR,
			is_pickup BOOLEAN DEFAULT false,
			updated_at TIMESTAMP DEFAULT now()
		)`,
		`CREATE TABLE mappings (
			id VARCHAR PRIMARY KEY,
			category VARCHAR NOT NULL,
			from_context VARCHAR NOT NULL,
			from_value VARCHAR NOT NULL,
			to_context VARCHAR NOT NULL,
			to_value VARCHAR NOT NULL,
			last_imported TIMESTAMP,
			updated_at TIMESTAMP DEFAULT now()
		)`,
		`CREATE TABLE patron_requests (
			id VARCHAR PRIMARY KEY,
			patron_id VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			pickup_location_code VARCHAR,
			host_lms_code VARCHAR,
			error_message VARCHAR,
			date_created TIMESTAMP DEFAULT now(),
			updated_at TIMESTAMP DEFAULT now()
		)`,
		`CREATE TABLE audit_log (
			id VARCHAR PRIMARY KEY,
			entity_kind VARCHAR NOT NULL,
			entity_id VARCHAR NOT NULL,
			action VARCHAR NOT NULL,
			detail VARCHAR,
			reason VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			reference_url VARCHAR,
			at TIMESTAMP NOT NULL
		)`,

		`INSERT INTO libraries (id, agency_code, name, support_hours, site_designation) VALUES
			('lib-1', 'AG-N', 'Northfield University Library', '9-5 M-F', 'main'),
			('lib-2', 'AG-S', 'Southbank College Library', '8-6 M-Sa', 'main'),
			('lib-3', 'AG-E', 'Eastvale Public Library', '10-4 M-F', 'branch')`,
		`INSERT INTO host_systems (id, code, name, lms_client, ingest_enabled) VALUES
			('hs-1', 'ABC', 'Northfield Sierra', 'sierra', true),
			('hs-2', 'DEF', 'Southbank Polaris', 'polaris', true),
			('hs-3', 'GHI', 'Eastvale FOLIO', 'folio', false)`,
		`INSERT INTO locations (id, code, name, type, agency_code, host_system_code, is_pickup) VALUES
			('loc-1', 'MAIN', 'Main Desk', 'pickup', 'AG-N', 'ABC', true),
			('loc-2', 'ANNEX', 'North Annex', 'shelving', 'AG-N', 'ABC', false),
			('loc-3', 'SB1', 'Southbank Counter', 'pickup', 'AG-S', 'DEF', true),
			('loc-4', 'EV1', 'Eastvale Foyer', 'pickup', 'AG-E', 'GHI', true)`,
		`INSERT INTO mappings (id, category, from_context, from_value, to_context, to_value) VALUES
			('map-1', 'ItemType', 'ABC', 'book', 'DCB', 'circ'),
			('map-2', 'ItemType', 'DEF', 'bk', 'DCB', 'circ'),
			('map-3', 'PatronType', 'ABC', 'staff', 'DCB', 'faculty'),
			('map-4', 'Location', 'GHI', 'ev-foyer', 'DCB', 'EV1')`,
		`INSERT INTO patron_requests (id, patron_id, status, pickup_location_code, host_lms_code, error_message) VALUES
			('pr-1', 'patron-11', 'REQUEST_PLACED_AT_SUPPLYING_AGENCY', 'MAIN', 'ABC', NULL),
			('pr-2', 'patron-12', 'ERROR', 'MAIN', 'ABC', 'no item at supplying agency'),
			('pr-3', 'patron-13', 'COMPLETED', 'SB1', 'DEF', NULL),
			('pr-4', 'patron-14', 'ERROR', 'EV1', 'GHI', 'patron not found')`,
	}

	for _, statement := range statements {
		_, err = dk.db.Exec(statement)
		if err != nil {
			err = errors.Wrapf(err, "failed to seed catalog")
			return
		}
	}

	return
}
