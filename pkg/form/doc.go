// Package form implements the controller behind one rendered sign-up form.
//
// A Controller owns the field values, the errors produced by the last submit
// and the banner Status. Values change through SetField; errors and status only
// change through Submit and Reset. Validation itself is delegated to package
// registration and the status is derived from its result in a separate step.
//
// Controllers are single-owner and not safe for concurrent use. Create one per
// form instance (request, websocket connection, terminal session).
package form
