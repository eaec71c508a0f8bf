package migrate

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	// WordRecordsTableName is the table backing the word store.
	WordRecordsTableName = "word_records"
	// WordRecordsTextColumn is the natural key of a record.
	WordRecordsTextColumn = "text"
	// WordRecordsTimestampColumn holds the capture time.
	WordRecordsTimestampColumn = "timestamp"
)

var (
	// WordRecordsColumns holds the columns for the "word_records" table.
	WordRecordsColumns = []*schema.Column{
		{Name: WordRecordsTextColumn, Type: field.TypeString, Unique: true},
		{Name: WordRecordsTimestampColumn, Type: field.TypeTime},
	}
	// WordRecordsTable holds the schema information for the "word_records" table.
	WordRecordsTable = &schema.Table{
		Name:       WordRecordsTableName,
		Columns:    WordRecordsColumns,
		PrimaryKey: []*schema.Column{WordRecordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "wordrecord_timestamp",
				Unique:  false,
				Columns: []*schema.Column{WordRecordsColumns[1]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		WordRecordsTable,
	}
)
