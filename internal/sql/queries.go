package sql

import "embed"

// Migrations holds the schema migrations, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/truncate_outputs.sql
var TruncateOutputs string

//go:embed queries/insert_patient.sql
var InsertPatient string

//go:embed queries/insert_event.sql
var InsertEvent string

//go:embed queries/record_run.sql
var RecordRun string
