// See types.go for the package overview.
package kernel
