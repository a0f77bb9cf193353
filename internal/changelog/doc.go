// Package changelog turns git commit subjects into a grouped, semantically
// versioned changelog.
//
// This package implements:
//   - Prefix classification of commit subjects into change categories
//   - Partitioning of a commit sequence into an ordered ChangeSet
//   - Bump level, next version, release type and upgrade recommendation
//   - Selection of the base reference to compare from
//   - Assembly of a presentation-agnostic RenderPlan and its rendering
//     through a Presenter
//
// Categories follow Keep a Changelog (https://keepachangelog.com/en/1.1.0/),
// extended with Ignored ("maintain" commits) and Unclassified catch-alls.
// Everything here is pure computation over materialized data; git access
// lives in the git package.
package changelog
