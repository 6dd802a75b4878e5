// @title                       Task Tracker API
// @version                     1.0
// @description                 Team task tracking with a manager review workflow.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import "github.com/99minutos/task-tracker/cmd"

func main() {
	cmd.Execute()
}
