// Package npm integrates the npm registry.
//
// Projects declaring an npm_id are enriched from the registry document
// (https://registry.npmjs.org/<name>), the download counts API
// (https://api.npmjs.org/downloads/point/last-month/<name>) and, when
// enabled, libraries.io. Monthly downloads are added to the project total.
package npm
