// Package directory is the client side of the user directory API.
//
// Client, Pager and Orchestrator carry the list, create and delete workflows and are
// what yupictl drives. ManagersScreen, the customers screen and Debouncer add per-keystroke
// search debouncing and header stats for interactive front-ends that keep a screen open;
// a one-shot command has no keystrokes to debounce and calls the Pager directly.
package directory
