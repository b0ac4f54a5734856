/*
Copyright © 2019 the irt authors.
This file is part of irt.

irt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

irt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with irt.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package irt implements a fast infrared radiative-transfer engine for
// limb and nadir atmospheric remote sensing: ray tracing through a
// spherical refracting atmosphere, LUT-based molecular absorption,
// analytical continuum models, radiative-transfer integration with
// field-of-view convolution, Jacobian assembly, and Levenberg-Marquardt
// optimal-estimation retrieval.
package irt

// Version is the current version of irt.
const Version = "0.1.0"
