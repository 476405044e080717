// Package database provides the local store for the reader.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, live-view callbacks
//	├── books/           # Books and their provider affiliations
//	├── groups/          # Chapter groups, keyed by link
//	├── contents/        # Downloaded chapters
//	├── settings/        # Application settings
//	└── sync/            # Library index progress
//
// # Using Queries
//
// Repositories are grouped in Queries and bound either to a plain connection
// or to a transaction:
//
//	db, err := database.NewDatabase("./qreader.db")
//
//	q := db.Queries(ctx)
//	groups, err := q.Books.Chapters(bookID)
//
//	err = db.Transaction(ctx, func(q *database.Queries) error {
//		if _, err := q.Contents.DeleteByGroupLink(oldLink); err != nil {
//			return err
//		}
//		_, err := q.Groups.Update(oldLink, "1 - 7", newLink, 1)
//		return err
//	})
//
// # Live Views
//
// Every create, update and delete that changes rows is published to the
// Hub by table name. Writes inside Transaction are held back and published
// once after commit; a rolled-back transaction publishes nothing.
//
// # SQLite
//
// Foreign keys are switched on so contents.group_link keeps referencing an
// existing chapter_groups.link. WAL mode lets readers proceed while the merge
// transaction writes.
package database
