// Package boardsync keeps a Trello board in line with a plain YAML outline.
//
// A board is described as a list of lists, each holding cards. Entities that
// already exist on the board carry their identifier in a "name (id)" suffix,
// so the outline produced by a fetch can be edited and applied back:
//
//	- Todo (5f0c1a):
//	  - Buy milk (5f0c1b)
//	  - Call mom
//	  - Laundry (5f0c1c): whites only
//	- Done (5f0c1d)
//
// Applying the outline renames, repositions and closes identified cards,
// creates the ones without an identifier and closes lists that are no longer
// mentioned. The pass is sequential and stops at the first failed call.
//
// Usage:
//
//	session, err := boardsync.Open(
//		boardsync.WithCredentials(key, token),
//		boardsync.WithBoard(boardID),
//	)
//	specs, err := document.ReadFile("board.yaml")
//	result, err := session.Apply(ctx, specs)
package boardsync
