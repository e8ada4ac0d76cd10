// Package ics serializes extracted events to an iCalendar (.ics) file that
// calendar applications can import.
package ics
