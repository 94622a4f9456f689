// Package render formats digest report lines. It substitutes
// single-brace {VAR} placeholders such as {digest}, {hex}, {name} and
// {size} with valyala/fasttemplate, leaving unknown placeholders intact.
package render
