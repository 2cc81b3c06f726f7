// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	BoxfileNotFoundId Id = iota + 1
	BoxfileParseErrorId
	TaskNotFoundId
	ContainerEngineNotFoundId
	TaskFailedId
	DependencyCycleId
	MissingDependenciesId
	MissingEnvironmentId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	boxfileNotFoundIssue = &Issue{
		id: BoxfileNotFoundId,
		mdMsg: `
# No boxfile found!

We searched for a boxfile.yaml but couldn't find one.

## Search locations (in order of precedence):
1. The path given via --file / -f
2. boxfile.yaml in the current directory

## Things you can try:
- Create a starter boxfile in your current directory:
~~~
$ boxcar init
~~~

- Or run from the directory that has one:
~~~
$ cd /path/to/your/project
$ boxcar list
~~~`,
	}

	boxfileParseErrorIssue = &Issue{
		id: BoxfileParseErrorId,
		mdMsg: `
# Failed to parse boxfile!

Your boxfile contains syntax errors or invalid configuration.

## Common issues:
- Invalid YAML syntax (bad indentation, unclosed quotes)
- Unknown field names
- Invalid values for known fields (e.g. a relative ` + "`location`" + `)
- A task referencing a dependency that does not exist

## Things you can try:
- Check the error message above for the offending field
- Validate the manifest without running anything:
~~~
$ boxcar validate
~~~

## Example of a valid boxfile:
~~~yaml
image: alpine:3.20
default: build

tasks:
  build:
    input_paths: [src]
    command: make all
~~~`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The task you named is not defined in the boxfile.

## Things you can try:
- List the available tasks:
~~~
$ boxcar list
~~~

- Check for typos in the task name
- Set a default task so a bare ` + "`boxcar run`" + ` works:
~~~yaml
default: build
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

boxcar runs every task in a container, but no container engine is available.

## Supported container engines:
- **Podman** (recommended for rootless setups)
- **Docker**

## Things you can try:
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `
  - Windows: Download from https://podman.io

- Install Docker:
  - https://docs.docker.com/get-docker/

- Configure your preferred engine in the config file:
~~~cue
container_engine: "podman"  // or "docker"
~~~`,
	}

	taskFailedIssue = &Issue{
		id: TaskFailedId,
		mdMsg: `
# Task failed!

The task's command exited with a nonzero status. Its output is printed above.

## Things you can try:
- Inspect the filesystem the command ran against:
~~~
$ boxcar run <task> --shell
~~~

- Declare ` + "`output_paths_on_failure`" + ` to copy logs back on failure:
~~~yaml
tasks:
  test:
    command: make test
    output_paths_on_failure: [test-report.xml]
~~~

- Re-run ignoring cached results:
~~~
$ boxcar run <task> --force
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Your task dependencies form a cycle, so no valid execution order exists.

## Example of a cycle:
~~~yaml
tasks:
  a:
    dependencies: [b]
  b:
    dependencies: [a]  # Cycle: a -> b -> a
~~~

## Things you can try:
- Review the dependencies fields in your boxfile
- Remove the circular dependency
- Use a linear dependency chain instead`,
	}

	missingDependenciesIssue = &Issue{
		id: MissingDependenciesId,
		mdMsg: `
# Unknown task references!

One or more tasks depend on task names that are not defined, or the
manifest's default names a task that does not exist.

## Things you can try:
- Check the names listed in the error message for typos
- Define the missing tasks
- List what the manifest actually defines:
~~~
$ boxcar list
~~~`,
	}

	missingEnvironmentIssue = &Issue{
		id: MissingEnvironmentId,
		mdMsg: `
# Missing environment variables!

A task declares environment variables that are neither set in your
environment nor given a default in the boxfile.

## Things you can try:
- Export the missing variables before running:
~~~
$ API_TOKEN=... boxcar run deploy
~~~

- Or give them a default in the boxfile (a null value means required):
~~~yaml
tasks:
  deploy:
    environment:
      API_TOKEN:           # required, no default
      AWS_REGION: eu-west-1
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the boxcar configuration file.

## Configuration file locations:
- Linux: ~/.config/boxcar/config.cue
- macOS: ~/Library/Application Support/boxcar/config.cue
- Windows: %APPDATA%\boxcar\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ boxcar config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
container_engine: "podman"
repository: "myproject"

ui: {
  verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The container engine requires elevated permissions
- Trying to write outputs to a protected directory

## Things you can try:
- For Docker, ensure you're in the docker group:
~~~
$ sudo usermod -aG docker $USER
~~~

- Use rootless containers with Podman
- Run boxcar from a directory you own`,
	}

	issues = map[Id]*Issue{
		boxfileNotFoundIssue.Id():         boxfileNotFoundIssue,
		boxfileParseErrorIssue.Id():       boxfileParseErrorIssue,
		taskNotFoundIssue.Id():            taskNotFoundIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		taskFailedIssue.Id():              taskFailedIssue,
		dependencyCycleIssue.Id():         dependencyCycleIssue,
		missingDependenciesIssue.Id():     missingDependenciesIssue,
		missingEnvironmentIssue.Id():      missingEnvironmentIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
